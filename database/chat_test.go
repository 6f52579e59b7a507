package database

import (
	"sync"
	"testing"

	"mechat-service/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	// One connection serializes writes, so concurrent callers contend on the
	// unique pair key instead of sqlite's file lock.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Chat{},
		&model.Message{},
		&model.Reaction{},
	))
	Postgres = db
}

func TestFindOrCreateChatConverges(t *testing.T) {
	newChatTestDB(t)

	first, err := FindOrCreateChat(3, 7)
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Equal(t, uint(3), first.LowID)
	assert.Equal(t, uint(7), first.HighID)

	// The reversed pair must resolve to the same row, not a second one.
	second, err := FindOrCreateChat(7, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, Postgres.Model(&model.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateChatConcurrentFirstContact(t *testing.T) {
	newChatTestDB(t)

	const callers = 8
	ids := make([]uint, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := uint(3), uint(7)
			if i%2 == 1 {
				a, b = b, a
			}
			chat, err := FindOrCreateChat(a, b)
			errs[i] = err
			if chat != nil {
				ids[i] = chat.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "every caller must resolve to the same chat")
	}

	var count int64
	require.NoError(t, Postgres.Model(&model.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "racing first contacts must not duplicate the chat")
}
