package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"shopbot/domain"
)

// ConversationRepository persists exchanges in BadgerDB.
type ConversationRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit *int
}

func NewConversationRepository(db *badger.DB, log *slog.Logger, limit *int) ConversationRepository {
	return ConversationRepository{db: db, log: log, limit: limit}
}

// Store persists one exchange.
// The key is formatted as "exch:{session}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     exchanges land on the same nanosecond.
func (r ConversationRepository) Store(exchange domain.Exchange) error {
	key := fmt.Sprintf("exch:%s:%019d:%s",
		exchange.Session,
		exchange.At.UnixNano(),
		exchange.ID,
	)
	value, err := json.Marshal(exchange)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// History retrieves a session's exchanges newest-first using a reverse
// prefix scan. The padded timestamp in the key keeps them naturally sorted.
// A non-nil cursor resumes after the last key of the previous page; the
// returned cursor is nil-safe to feed back in for the next page.
func (r ConversationRepository) History(session string, cursor *string) ([]domain.Exchange, *string, error) {
	var exchanges []domain.Exchange
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("exch:%s:", session)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limit != nil && len(exchanges) == *r.limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d exchanges reached", *r.limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			err := item.Value(func(value []byte) error {
				var exchange domain.Exchange
				if err := json.Unmarshal(value, &exchange); err != nil {
					return err
				}
				exchanges = append(exchanges, exchange)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return exchanges, nil, nil
	}
	return exchanges, &lastKey, nil
}
