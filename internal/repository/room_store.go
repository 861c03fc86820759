package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
)

// RoomStore persists room snapshots in PostgreSQL across five tables:
// rooms, players, player_cards, deck_cards and discard_pile. Card rows
// keep an explicit order column so draw piles round-trip intact.
type RoomStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewRoomStore(pool *pgxpool.Pool, logger *zap.Logger) *RoomStore {
	return &RoomStore{pool: pool, logger: logger}
}

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
    id TEXT PRIMARY KEY,
    game_started BOOLEAN DEFAULT FALSE,
    current_player_index INTEGER DEFAULT 0,
    dealer_index INTEGER DEFAULT 0,
    chosen_suit TEXT,
    waiting_for_eight BOOLEAN DEFAULT FALSE,
    eight_draw_used BOOLEAN DEFAULT FALSE,
    card_drawn_this_turn BOOLEAN DEFAULT FALSE,
    last_loser_id TEXT,
    deck_size INTEGER DEFAULT 52,
    creator_id TEXT,
    is_private BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
    id TEXT PRIMARY KEY,
    room_id TEXT REFERENCES rooms(id) ON DELETE CASCADE,
    nickname TEXT NOT NULL,
    ready BOOLEAN DEFAULT FALSE,
    score INTEGER DEFAULT 0,
    is_bot BOOLEAN DEFAULT FALSE,
    player_order INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS player_cards (
    id SERIAL PRIMARY KEY,
    player_id TEXT REFERENCES players(id) ON DELETE CASCADE,
    card_suit TEXT NOT NULL,
    card_rank TEXT NOT NULL,
    card_id TEXT NOT NULL,
    card_order INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deck_cards (
    id SERIAL PRIMARY KEY,
    room_id TEXT REFERENCES rooms(id) ON DELETE CASCADE,
    card_suit TEXT NOT NULL,
    card_rank TEXT NOT NULL,
    card_id TEXT NOT NULL,
    card_order INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS discard_pile (
    id SERIAL PRIMARY KEY,
    room_id TEXT REFERENCES rooms(id) ON DELETE CASCADE,
    card_suit TEXT NOT NULL,
    card_rank TEXT NOT NULL,
    card_id TEXT NOT NULL,
    card_order INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_players_room ON players(room_id);
CREATE INDEX IF NOT EXISTS idx_player_cards_player ON player_cards(player_id);
CREATE INDEX IF NOT EXISTS idx_deck_cards_room ON deck_cards(room_id);
CREATE INDEX IF NOT EXISTS idx_discard_pile_room ON discard_pile(room_id);
`

// Init creates the schema when absent.
func (s *RoomStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// SaveRoom writes the whole snapshot in one transaction: the room row
// is upserted and every card table is rewritten for that room.
func (s *RoomStore) SaveRoom(ctx context.Context, snap *game.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO rooms (id, game_started, current_player_index, dealer_index,
			chosen_suit, waiting_for_eight, eight_draw_used, card_drawn_this_turn,
			last_loser_id, deck_size, creator_id, is_private, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			game_started = EXCLUDED.game_started,
			current_player_index = EXCLUDED.current_player_index,
			dealer_index = EXCLUDED.dealer_index,
			chosen_suit = EXCLUDED.chosen_suit,
			waiting_for_eight = EXCLUDED.waiting_for_eight,
			eight_draw_used = EXCLUDED.eight_draw_used,
			card_drawn_this_turn = EXCLUDED.card_drawn_this_turn,
			last_loser_id = EXCLUDED.last_loser_id,
			deck_size = EXCLUDED.deck_size,
			creator_id = EXCLUDED.creator_id,
			is_private = EXCLUDED.is_private,
			updated_at = NOW()`,
		snap.ID, snap.GameStarted, snap.CurrentPlayerIndex, snap.DealerIndex,
		string(snap.ChosenSuit), snap.WaitingForEight, snap.EightDrawUsed,
		snap.CardDrawnThisTurn, snap.LastLoserID, snap.DeckSize,
		snap.CreatorID, snap.IsPrivate)
	if err != nil {
		return fmt.Errorf("saving room %s: %w", snap.ID, err)
	}

	// Seats are rewritten wholesale; the player_cards cascade handles
	// hands of removed seats.
	if _, err := tx.Exec(ctx, `DELETE FROM players WHERE room_id = $1`, snap.ID); err != nil {
		return fmt.Errorf("clearing players for room %s: %w", snap.ID, err)
	}
	for i, p := range snap.Players {
		_, err := tx.Exec(ctx, `
			INSERT INTO players (id, room_id, nickname, ready, score, is_bot, player_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, snap.ID, p.Nickname, p.Ready, p.Score, p.IsBot, i)
		if err != nil {
			return fmt.Errorf("saving player %s: %w", p.ID, err)
		}
		for j, c := range p.Hand {
			_, err := tx.Exec(ctx, `
				INSERT INTO player_cards (player_id, card_suit, card_rank, card_id, card_order)
				VALUES ($1, $2, $3, $4, $5)`,
				p.ID, string(c.Suit), string(c.Rank), c.ID, j)
			if err != nil {
				return fmt.Errorf("saving hand of player %s: %w", p.ID, err)
			}
		}
	}

	if err := replaceCards(ctx, tx, "deck_cards", snap.ID, snap.Deck); err != nil {
		return err
	}
	if err := replaceCards(ctx, tx, "discard_pile", snap.ID, snap.DiscardPile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing room %s: %w", snap.ID, err)
	}
	return nil
}

func replaceCards(ctx context.Context, tx pgx.Tx, table, roomID string, cards []deck.Card) error {
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE room_id = $1`, table), roomID); err != nil {
		return fmt.Errorf("clearing %s for room %s: %w", table, roomID, err)
	}
	for i, c := range cards {
		_, err := tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (room_id, card_suit, card_rank, card_id, card_order)
			VALUES ($1, $2, $3, $4, $5)`, table),
			roomID, string(c.Suit), string(c.Rank), c.ID, i)
		if err != nil {
			return fmt.Errorf("saving %s for room %s: %w", table, roomID, err)
		}
	}
	return nil
}

// LoadRoom reads one snapshot. A missing room returns (nil, nil).
func (s *RoomStore) LoadRoom(ctx context.Context, id string) (*game.Snapshot, error) {
	snap := &game.Snapshot{ID: id}
	var chosenSuit, lastLoser, creator *string
	err := s.pool.QueryRow(ctx, `
		SELECT game_started, current_player_index, dealer_index, chosen_suit,
			waiting_for_eight, eight_draw_used, card_drawn_this_turn,
			last_loser_id, deck_size, creator_id, is_private
		FROM rooms WHERE id = $1`, id).Scan(
		&snap.GameStarted, &snap.CurrentPlayerIndex, &snap.DealerIndex,
		&chosenSuit, &snap.WaitingForEight, &snap.EightDrawUsed,
		&snap.CardDrawnThisTurn, &lastLoser, &snap.DeckSize, &creator,
		&snap.IsPrivate)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading room %s: %w", id, err)
	}
	if chosenSuit != nil {
		snap.ChosenSuit = deck.Suit(*chosenSuit)
	}
	if lastLoser != nil {
		snap.LastLoserID = *lastLoser
	}
	if creator != nil {
		snap.CreatorID = *creator
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, nickname, ready, score, is_bot
		FROM players WHERE room_id = $1 ORDER BY player_order`, id)
	if err != nil {
		return nil, fmt.Errorf("loading players of room %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p game.PlayerSnapshot
		if err := rows.Scan(&p.ID, &p.Nickname, &p.Ready, &p.Score, &p.IsBot); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		snap.Players = append(snap.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading players of room %s: %w", id, err)
	}

	for i := range snap.Players {
		hand, err := s.loadCards(ctx, `
			SELECT card_suit, card_rank, card_id FROM player_cards
			WHERE player_id = $1 ORDER BY card_order`, snap.Players[i].ID)
		if err != nil {
			return nil, err
		}
		snap.Players[i].Hand = hand
	}

	if snap.Deck, err = s.loadCards(ctx, `
		SELECT card_suit, card_rank, card_id FROM deck_cards
		WHERE room_id = $1 ORDER BY card_order`, id); err != nil {
		return nil, err
	}
	if snap.DiscardPile, err = s.loadCards(ctx, `
		SELECT card_suit, card_rank, card_id FROM discard_pile
		WHERE room_id = $1 ORDER BY card_order`, id); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *RoomStore) loadCards(ctx context.Context, query, arg string) ([]deck.Card, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}
	defer rows.Close()

	var cards []deck.Card
	for rows.Next() {
		var suit, rank string
		var c deck.Card
		if err := rows.Scan(&suit, &rank, &c.ID); err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		c.Suit = deck.Suit(suit)
		c.Rank = deck.Rank(rank)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}
	return cards, nil
}

// DeleteRoom removes a room; card and player rows cascade.
func (s *RoomStore) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting room %s: %w", id, err)
	}
	return nil
}

// ListRoomIDs returns every persisted room id.
func (s *RoomStore) ListRoomIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM rooms ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning room id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	return ids, nil
}

// DeleteAll wipes every persisted room; used by the --clearrooms flag.
func (s *RoomStore) DeleteAll(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms`)
	if err != nil {
		return 0, fmt.Errorf("clearing rooms: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// PurgeInactiveSince removes rooms untouched for longer than age and
// reports how many were dropped.
func (s *RoomStore) PurgeInactiveSince(ctx context.Context, age time.Duration) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM rooms WHERE updated_at < NOW() - make_interval(secs => $1)`,
		age.Seconds())
	if err != nil {
		return 0, fmt.Errorf("purging inactive rooms: %w", err)
	}
	n := int(tag.RowsAffected())
	if n > 0 {
		s.logger.Info("purged inactive rooms", zap.Int("count", n))
	}
	return n, nil
}
