package xo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mezonai/xoledger/batch"
	"github.com/mezonai/xoledger/client"
	"github.com/mezonai/xoledger/hashing"
	"github.com/mezonai/xoledger/logx"
	"github.com/mezonai/xoledger/monitoring"
	"github.com/mezonai/xoledger/signing"
	"github.com/mezonai/xoledger/stringutil"
	"github.com/mezonai/xoledger/transaction"
	"github.com/mezonai/xoledger/types"
)

var Family = transaction.Family{Name: FamilyName, Version: FamilyVersion}

// Submission is a batch on its way to the ledger. Result yields once.
type Submission struct {
	BatchID string
	Result  <-chan client.Result
}

// Handler turns game actions into signed batches for one player key.
type Handler struct {
	ledger    client.LedgerClient
	txns      *transaction.Builder
	batches   *batch.Builder
	playerKey string
}

func NewHandler(signer *signing.Signer, ledger client.LedgerClient, opts ...transaction.Option) (*Handler, error) {
	pub, err := signer.GetPublicKey()
	if err != nil {
		return nil, err
	}
	return &Handler{
		ledger:    ledger,
		txns:      transaction.NewBuilder(signer, Family, opts...),
		batches:   batch.NewBuilder(signer),
		playerKey: pub.Hex(),
	}, nil
}

func (h *Handler) PlayerKey() string {
	return h.playerKey
}

func GameAddress(name string) string {
	return hashing.MakeAddress(FamilyName, name)
}

// MakeBatch builds the single-transaction batch list for one action.
func (h *Handler) MakeBatch(name, action, arg string) (*types.BatchList, string, error) {
	if err := ValidateName(name); err != nil {
		return nil, "", err
	}
	txn, err := h.txns.Build(name, action, arg)
	if err != nil {
		return nil, "", err
	}
	monitoring.RecordTxBuilt(FamilyName)

	list, batchID, err := h.batches.Build([]*types.Transaction{txn})
	if err != nil {
		return nil, "", err
	}
	monitoring.RecordBatchBuilt(1)
	return list, batchID, nil
}

func (h *Handler) submit(ctx context.Context, name, action, arg string) (*Submission, error) {
	list, batchID, err := h.MakeBatch(name, action, arg)
	if err != nil {
		return nil, err
	}
	logx.Info("XO", "Submitting ", action, " for game ", name, " batch ", stringutil.ShortenLog(batchID))
	return &Submission{BatchID: batchID, Result: h.ledger.Submit(ctx, list, batchID)}, nil
}

func (h *Handler) CreateGame(ctx context.Context, name string) (*Submission, error) {
	return h.submit(ctx, name, ActionCreate, "")
}

// TakeSpace checks the move against current state before submitting so
// obvious mistakes never reach the ledger.
func (h *Handler) TakeSpace(ctx context.Context, name string, space int) (*Submission, error) {
	if space < 1 || space > boardSize {
		return nil, ErrInvalidSpace
	}
	game, err := h.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := game.CanTake(h.playerKey, space); err != nil {
		return nil, err
	}
	return h.submit(ctx, name, ActionTake, fmt.Sprint(space))
}

func (h *Handler) DeleteGame(ctx context.Context, name string) (*Submission, error) {
	return h.submit(ctx, name, ActionDelete, "")
}

func (h *Handler) GetGame(ctx context.Context, name string) (*Game, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	address := GameAddress(name)
	entries, err := h.ledger.GetState(ctx, address)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Address != "" && entry.Address != address {
			continue
		}
		games, err := ParseGames(entry.Data)
		if err != nil {
			return nil, err
		}
		for _, g := range games {
			if g.Name == name {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGameNotFound, name)
}

// ListGames reads every game under the xo namespace, sorted by name.
func (h *Handler) ListGames(ctx context.Context) ([]*Game, error) {
	entries, err := h.ledger.GetState(ctx, hashing.NamespacePrefix(FamilyName))
	if err != nil {
		return nil, err
	}
	var games []*Game
	for _, entry := range entries {
		parsed, err := ParseGames(entry.Data)
		if err != nil {
			logx.Warn("XO", "Skipping unreadable state at ", entry.Address, ": ", err)
			continue
		}
		games = append(games, parsed...)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

// Await blocks until sub resolves or ctx ends.
func Await(ctx context.Context, sub *Submission) client.Result {
	select {
	case res, ok := <-sub.Result:
		if !ok {
			return client.Result{BatchID: sub.BatchID, Err: errors.New("xo: submission ended without a result")}
		}
		return res
	case <-ctx.Done():
		return client.Result{BatchID: sub.BatchID, Err: ctx.Err()}
	}
}
