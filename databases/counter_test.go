package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/databases/mocks"
)

func TestCounterDatabase_NextSequence(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelper databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelper = &mocks.SingleResultHelper{}

	srHelper.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*databases.Counter)
		arg.Seq = 42
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "counters").
		Return(collectionHelper)

	counterDB := databases.NewCounterDatabase(dbHelper)

	seq, err := counterDB.NextSequence(context.Background(), "reports")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), seq)
}

func TestCounterDatabase_NextSequenceError(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelper databases.SingleResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelper = &mocks.SingleResultHelper{}

	srHelper.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "counters").
		Return(collectionHelper)

	counterDB := databases.NewCounterDatabase(dbHelper)

	seq, err := counterDB.NextSequence(context.Background(), "reports")
	assert.Zero(t, seq)
	assert.EqualError(t, err, "mocked-error")
}
