package database

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, PROFILE_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Nil(t, db.SQL)
}

func TestCacheBuilder_KeyTypes(t *testing.T) {
	builder := NewCacheBuilder(nil, "company:abc")
	assert.Equal(t, "company:abc", builder.key)

	builder = builder.WithValue("v")
	assert.Equal(t, "v", builder.value)
}
