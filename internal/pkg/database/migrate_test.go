package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrate_UnsupportedAction(t *testing.T) {
	err := Migrate("sideways", "migrations", "postgres://localhost/none")
	assert.ErrorContains(t, err, `unsupported migration action "sideways"`)
}
