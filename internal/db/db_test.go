package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/code-sentry/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			name: "ssl mode defaults to disable",
			cfg:  config.DBConfig{Host: "localhost", Port: 5432, Username: "sentry", Password: "pw", Database: "codesentry"},
			want: "host=localhost port=5432 user=sentry password=pw dbname=codesentry sslmode=disable",
		},
		{
			name: "explicit ssl mode",
			cfg:  config.DBConfig{Host: "db", Port: 6543, Username: "u", Password: "p", Database: "d", SSLMode: "require"},
			want: "host=db port=6543 user=u password=p dbname=d sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN(&tt.cfg))
		})
	}
}
