package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

// importStats resumen de una importación. Las filas inválidas no detienen el proceso.
type importStats struct {
	Transactions int
	Categories   int
	Rejected     []error
}

type importer struct {
	categories   *ledger.CategoryUseCase
	transactions *ledger.TransactionUseCase
	engine       *analytics.Engine
}

func newImporter(categories *ledger.CategoryUseCase, transactions *ledger.TransactionUseCase, engine *analytics.Engine) *importer {
	return &importer{categories: categories, transactions: transactions, engine: engine}
}

// Import lee filas date,kind,amount,category,note. Las categorías se crean al aparecer por primera vez;
// las que ya existían en el libro se reutilizan por nombre.
func (i *importer) Import(ctx context.Context, ownerID string, r io.Reader) (*importStats, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	stats := &importStats{}
	ids := make(map[string]string) // NameKey -> id
	existing, err := i.engine.Categories(ctx, ownerID)
	if err != nil {
		return stats, err
	}
	for _, c := range existing {
		ids[c.NameKey] = c.ID
	}
	line := 0
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return stats, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 3 {
			stats.Rejected = append(stats.Rejected, fmt.Errorf("línea %d: se esperan al menos 3 columnas", line))
			continue
		}
		in, err := rowInput(rec)
		if err != nil {
			stats.Rejected = append(stats.Rejected, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		if name := column(rec, 3); name != "" {
			id, created, err := i.categoryID(ctx, ownerID, name, ids)
			if err != nil {
				return stats, fmt.Errorf("línea %d: %w", line, err)
			}
			if created {
				stats.Categories++
			}
			in.CategoryID = &id
		}
		if _, err := i.transactions.AddTransaction(ctx, ownerID, in); err != nil {
			if errors.Is(err, domain.ErrStorage) {
				return stats, fmt.Errorf("línea %d: %w", line, err)
			}
			stats.Rejected = append(stats.Rejected, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		stats.Transactions++
	}
	return stats, nil
}

// categoryID resuelve el nombre a un id, creando la categoría si hace falta.
func (i *importer) categoryID(ctx context.Context, ownerID, name string, ids map[string]string) (string, bool, error) {
	key := entity.NameKey(name)
	if id, ok := ids[key]; ok {
		return id, false, nil
	}
	cat, err := i.categories.AddCategory(ctx, ownerID, name)
	if err != nil {
		return "", false, err
	}
	ids[key] = cat.ID
	return cat.ID, true, nil
}

func rowInput(rec []string) (ledger.TransactionInput, error) {
	day, err := entity.ParseDay(rec[0])
	if err != nil {
		return ledger.TransactionInput{}, domain.Validation("fecha inválida %q", rec[0])
	}
	kind, err := entity.ParseKind(rec[1])
	if err != nil {
		return ledger.TransactionInput{}, domain.Validation("tipo inválido %q", rec[1])
	}
	return ledger.TransactionInput{Amount: rec[2], Kind: kind, Date: day, Note: column(rec, 4)}, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")))
	return first == "date" || first == "fecha"
}

func column(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
