package db_test

import (
	"strings"
	"testing"

	"github.com/palmlink/palmlink/internal/db"
)

func TestInitPostgres_BadDSN(t *testing.T) {
	cases := []struct {
		name string
		dsn  string
	}{
		{"unknown parameter", "some=random"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), "postgres") {
				t.Errorf("InitPostgres(%q) error = %q; want a postgres init error", tc.dsn, err.Error())
			}
		})
	}
}
