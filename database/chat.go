package database

import (
	"mechat-service/model"

	"gorm.io/gorm/clause"
)

// FindOrCreateChat returns the single chat for an unordered participant pair,
// creating it when absent. The insert uses ON CONFLICT DO NOTHING against the
// unique pair key and then re-reads, so two concurrent first-contact sends
// converge on one row instead of racing a find-then-create.
func FindOrCreateChat(a uint, b uint) (*model.Chat, error) {
	low, high, key := model.ChatPair(a, b)

	chat := &model.Chat{
		Type:    model.ChatTypeSingle,
		LowID:   low,
		HighID:  high,
		PairKey: key,
	}
	if err := Postgres.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(chat).Error; err != nil {
		return nil, err
	}

	// A conflict leaves chat.ID zero; either way the read below is the row
	// that won.
	found := &model.Chat{}
	if err := Postgres.Where(&model.Chat{PairKey: key}).First(found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
