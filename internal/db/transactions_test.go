package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestShouldRetry(t *testing.T) {
	assert.True(t, shouldRetry(mongo.CommandError{Code: 112, Message: "WriteConflict"}))
	assert.True(t, shouldRetry(mongo.CommandError{Code: 251, Message: "NoSuchTransaction"}))
	assert.True(t, shouldRetry(context.DeadlineExceeded))

	assert.False(t, shouldRetry(errors.New("plain error")))
	assert.False(t, shouldRetry(&DuplicateKeyError{Key: "k", Message: "duplicate"}))
	assert.False(t, shouldRetry(mongo.CommandError{Code: 11000, Message: "DuplicateKey"}))
}

func TestTypedErrors(t *testing.T) {
	dup := &DuplicateKeyError{Key: "staker:0", Message: "stake record already exists"}
	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsNotFoundError(dup))

	nf := &NotFoundError{Key: "staker:0", Message: "no open stake record"}
	assert.True(t, IsNotFoundError(nf))
	assert.False(t, IsDuplicateKeyError(nf))

	assert.True(t, IsWriteConflictError(mongo.CommandError{Code: 112}))
	assert.False(t, IsWriteConflictError(mongo.CommandError{Code: 11000}))
	assert.True(t, IsTransactionAbortedError(mongo.CommandError{Code: 251}))
}
