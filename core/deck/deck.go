// Package deck exports the flashcards of an fla document to a SQLite file.
//
// Each pair becomes one row of the cards table, in source order. The front
// and back columns hold exactly what the Markdown build renders for the
// pair, so a deck and a .fla.md file built from the same source agree.
package deck

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/fla/core/ast"
	ferrors "github.com/FocuswithJustin/fla/core/errors"
	"github.com/FocuswithJustin/fla/core/render"
	"github.com/FocuswithJustin/fla/core/sqlite"
)

// cardNamespace seeds the UUIDv5 card ids.
var cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/FocuswithJustin/fla/card"))

const schema = `
CREATE TABLE deck (
	name       TEXT NOT NULL,
	card_count INTEGER NOT NULL
);
CREATE TABLE cards (
	seq        INTEGER PRIMARY KEY,
	id         TEXT NOT NULL,
	front      TEXT NOT NULL,
	back       TEXT NOT NULL,
	start_with TEXT NOT NULL
);
CREATE INDEX cards_start_with ON cards (start_with);
`

// Card is one exported flashcard.
type Card struct {
	Seq       int
	ID        string
	Front     string
	Back      string
	StartWith string
}

// Cards renders every pair of root as a card, in source order.
func Cards(root ast.Root) ([]Card, error) {
	pairs := root.Pairs()
	cards := make([]Card, 0, len(pairs))
	for i, pair := range pairs {
		front, err := render.CardFront(pair)
		if err != nil {
			return nil, ferrors.NewEmptyKey("deck", i+1)
		}
		start, _ := render.StartWith(pair)
		cards = append(cards, Card{
			Seq:       i + 1,
			ID:        CardID(front),
			Front:     front,
			Back:      strings.Join(render.CardBack(pair), "\n"),
			StartWith: start,
		})
	}
	return cards, nil
}

// CardID derives a stable id from a card front, so re-exporting a deck keeps
// ids for unchanged keys.
func CardID(front string) string {
	return uuid.NewSHA1(cardNamespace, []byte(front)).String()
}

// Export writes a new deck named name to path, replacing any existing file.
// The deck is built next to path and renamed into place only when complete.
func Export(ctx context.Context, root ast.Root, name, path string) error {
	cards, err := Cards(root)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".deck-*.db")
	if err != nil {
		return ferrors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := writeDeck(ctx, tmpPath, name, cards); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return ferrors.NewIO("chmod", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return ferrors.NewIO("rename", path, err)
	}
	return nil
}

func writeDeck(ctx context.Context, path, name string, cards []Card) (err error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return ferrors.NewIO("open", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = ferrors.NewIO("close", path, cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return ferrors.Wrap(err, "deck: create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ferrors.Wrap(err, "deck: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO deck (name, card_count) VALUES (?, ?)`, name, len(cards)); err != nil {
		return ferrors.Wrap(err, "deck: insert deck row")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (seq, id, front, back, start_with) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return ferrors.Wrap(err, "deck: prepare")
	}
	defer stmt.Close()

	for _, c := range cards {
		if _, err := stmt.ExecContext(ctx, c.Seq, c.ID, c.Front, c.Back, c.StartWith); err != nil {
			return ferrors.Wrapf(err, "deck: insert card %d", c.Seq)
		}
	}
	if err := tx.Commit(); err != nil {
		return ferrors.Wrap(err, "deck: commit")
	}
	return nil
}

// Read loads the deck name and cards stored at path.
func Read(ctx context.Context, path string) (string, []Card, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return "", nil, ferrors.NewIO("open", path, err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRowContext(ctx, `SELECT name FROM deck`).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ferrors.NewParse("deck", path, "missing deck row")
		}
		return "", nil, ferrors.Wrap(err, "deck: read name")
	}

	rows, err := db.QueryContext(ctx, `SELECT seq, id, front, back, start_with FROM cards ORDER BY seq`)
	if err != nil {
		return "", nil, ferrors.Wrap(err, "deck: read cards")
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.Seq, &c.ID, &c.Front, &c.Back, &c.StartWith); err != nil {
			return "", nil, ferrors.Wrap(err, "deck: scan card")
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return "", nil, ferrors.Wrap(err, "deck: read cards")
	}
	return name, cards, nil
}
