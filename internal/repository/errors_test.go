package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateErr(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Chai' for key 'name'"}

	t.Run("duplicate key error", func(t *testing.T) {
		assert.True(t, isDuplicateErr(dup))
	})

	t.Run("wrapped duplicate key error", func(t *testing.T) {
		assert.True(t, isDuplicateErr(fmt.Errorf("insert category: %w", dup)))
	})

	t.Run("other mysql error", func(t *testing.T) {
		fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
		assert.False(t, isDuplicateErr(fk))
	})

	t.Run("non-driver error mentioning the code", func(t *testing.T) {
		assert.False(t, isDuplicateErr(errors.New("timeout after 1062ms")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, isDuplicateErr(nil))
	})
}
