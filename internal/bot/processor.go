// Package bot turns incoming photos, documents and chat replies into expense
// drafts and drives each user's single pending draft to confirmation.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/barcode"
	"github.com/MrJamesThe3rd/gastos/internal/card"
	"github.com/MrJamesThe3rd/gastos/internal/dte"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	"github.com/MrJamesThe3rd/gastos/internal/extract"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
)

//go:generate mockgen -source=processor.go -destination=processor_mock.go -package=bot
type Drafts interface {
	Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error)
	Pending(ctx context.Context, userID uuid.UUID) (*expense.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*expense.Expense, error)
	Update(ctx context.Context, id uuid.UUID, u expense.Update) error
	Confirm(ctx context.Context, id uuid.UUID) (bool, error)
	Reject(ctx context.Context, id uuid.UUID) (bool, error)
}

type Merchants interface {
	FindCandidates(ctx context.Context, term string) ([]*merchant.Merchant, error)
	ResolveOrCreate(ctx context.Context, params merchant.ResolveParams) (*merchant.Merchant, error)
}

type Cards interface {
	List(ctx context.Context, userID uuid.UUID) ([]*card.Card, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) ([]*card.Card, error)
}

type Decoder interface {
	Decode(ctx context.Context, raw []byte) (*dte.Record, error)
}

type Extractor interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*extract.Receipt, error)
	InterpretCorrection(ctx context.Context, draft *expense.Expense, text string) (extract.Correction, error)
}

type Processor struct {
	drafts    Drafts
	merchants Merchants
	cards     Cards
	decoder   Decoder
	extractor Extractor

	loc *time.Location
	now func() time.Time
}

func NewProcessor(drafts Drafts, merchants Merchants, cards Cards, decoder Decoder, extractor Extractor, loc *time.Location) *Processor {
	if loc == nil {
		loc = time.UTC
	}

	return &Processor{
		drafts:    drafts,
		merchants: merchants,
		cards:     cards,
		decoder:   decoder,
		extractor: extractor,
		loc:       loc,
		now:       time.Now,
	}
}

// draftInput is what either the TED record or the vision extractor yields.
type draftInput struct {
	Amount         int64
	MerchantName   string
	IssuerID       string
	Category       string
	Date           *civil.Date
	DocumentNumber string
	PaymentMethod  expense.PaymentMethod
	CardName       string
}

func fromRecord(rec *dte.Record) draftInput {
	return draftInput{
		Amount:         rec.TotalAmount,
		IssuerID:       rec.IssuerID,
		Date:           &rec.Date,
		DocumentNumber: rec.DocumentNumber,
	}
}

func fromReceipt(r *extract.Receipt) draftInput {
	return draftInput{
		Amount:         r.Amount,
		MerchantName:   r.Merchant,
		IssuerID:       r.IssuerID,
		Category:       r.Category,
		Date:           r.Date,
		DocumentNumber: r.DocumentNumber,
		PaymentMethod:  r.PaymentMethod,
		CardName:       r.CardName,
	}
}

// ProcessImage reads a receipt photo into a new pending draft. The PDF417
// stamp is tried first; the vision extractor is only asked when it fails.
func (p *Processor) ProcessImage(ctx context.Context, userID uuid.UUID, image []byte) (string, error) {
	slog.Info("processing image", "user_id", userID, "bytes", len(image))

	rec, err := p.decoder.Decode(ctx, image)
	if err == nil {
		slog.Info("DTE detected", "folio", rec.DocumentNumber, "amount", rec.TotalAmount, "type", rec.DocumentType)
		return p.createDraft(ctx, userID, fromRecord(rec))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	if !errors.Is(err, barcode.ErrNotFound) {
		slog.Warn("barcode search failed", "error", err)
	}

	mime := mimetype.Detect(image)
	if !strings.HasPrefix(mime.String(), "image/") {
		slog.Info("unsupported upload", "mime", mime.String())
		return ReplyUnsupported, nil
	}

	receipt, err := p.extractor.ExtractReceipt(ctx, image, mime.String())
	if err != nil {
		return "", fmt.Errorf("extracting receipt: %w", err)
	}

	return p.createDraft(ctx, userID, fromReceipt(receipt))
}

// ProcessDocument reads a forwarded DTE XML file into a new pending draft.
func (p *Processor) ProcessDocument(ctx context.Context, userID uuid.UUID, r io.Reader) (string, error) {
	rec, err := dte.ParseDocument(r)
	if err != nil {
		if errors.Is(err, dte.ErrNotFound) {
			return ReplyNoTED, nil
		}

		return "", fmt.Errorf("reading document: %w", err)
	}

	slog.Info("DTE document", "user_id", userID, "folio", rec.DocumentNumber, "amount", rec.TotalAmount)

	return p.createDraft(ctx, userID, fromRecord(rec))
}

func (p *Processor) createDraft(ctx context.Context, userID uuid.UUID, in draftInput) (string, error) {
	m, err := p.merchants.ResolveOrCreate(ctx, merchant.ResolveParams{
		IssuerID: in.IssuerID,
		Name:     in.MerchantName,
		Category: in.Category,
	})
	if err != nil {
		return "", fmt.Errorf("resolving merchant: %w", err)
	}

	category := in.Category
	if category == "" {
		category = m.Category
	}

	if category == "" {
		category = expense.DefaultCategory
	}

	date := civil.DateOf(p.now().In(p.loc))
	if in.Date != nil {
		date = *in.Date
	}

	var (
		cardID   *uuid.UUID
		cardName string
	)

	if in.PaymentMethod == expense.PaymentCredit && in.CardName != "" {
		matches, err := p.cards.FindByName(ctx, userID, in.CardName)
		if err != nil {
			return "", fmt.Errorf("finding card: %w", err)
		}

		if len(matches) > 0 {
			cardID = &matches[0].ID
			cardName = matches[0].Name
		}
	}

	draft, err := p.drafts.Create(ctx, expense.CreateParams{
		UserID:         userID,
		Amount:         in.Amount,
		MerchantName:   m.Name,
		MerchantID:     &m.ID,
		Category:       category,
		Date:           date,
		DocumentNumber: in.DocumentNumber,
		PaymentMethod:  in.PaymentMethod,
		CardID:         cardID,
	})
	if err != nil {
		return "", fmt.Errorf("creating draft: %w", err)
	}

	slog.Info("draft created", "user_id", userID, "expense_id", draft.ID, "merchant", m.Name, "amount", draft.Amount)

	return draftMessage(draftView{
		merchant:       m.Name,
		issuerID:       m.IssuerID,
		documentNumber: draft.DocumentNumber,
		amount:         draft.Amount,
		category:       draft.Category,
		paymentMethod:  draft.PaymentMethod,
		cardName:       cardName,
	}), nil
}

// ProcessText applies a chat reply to the user's most recent pending draft.
func (p *Processor) ProcessText(ctx context.Context, userID uuid.UUID, text string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(text))

	draft, err := p.drafts.Pending(ctx, userID)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			return ReplyNoPending, nil
		}

		return "", fmt.Errorf("finding pending draft: %w", err)
	}

	switch {
	case confirmWords[clean]:
		return p.confirm(ctx, draft)
	case rejectWords[clean]:
		return p.reject(ctx, draft)
	}

	if n, err := strconv.Atoi(clean); err == nil && n > 0 {
		reply, ok, err := p.selectMerchant(ctx, draft, n)
		if err != nil {
			return "", err
		}

		if ok {
			return reply, nil
		}
	}

	return p.correct(ctx, draft, strings.TrimSpace(text))
}

func (p *Processor) confirm(ctx context.Context, draft *expense.Expense) (string, error) {
	// A name typed in a correction that matched nothing becomes a catalog entry now.
	if draft.MerchantID == nil && draft.MerchantName != "" {
		m, err := p.merchants.ResolveOrCreate(ctx, merchant.ResolveParams{Name: draft.MerchantName})
		if err != nil {
			return "", fmt.Errorf("resolving merchant: %w", err)
		}

		err = p.updateDraft(ctx, draft.ID, expense.Update{MerchantID: &m.ID})
		if errors.Is(err, expense.ErrNotFound) {
			return ReplyNoPending, nil
		}

		if err != nil {
			return "", fmt.Errorf("linking merchant: %w", err)
		}
	}

	ok, err := p.drafts.Confirm(ctx, draft.ID)
	if err != nil {
		return "", fmt.Errorf("confirming draft: %w", err)
	}

	if !ok {
		return ReplyNoPending, nil
	}

	final, err := p.drafts.Get(ctx, draft.ID)
	if err != nil {
		return "", fmt.Errorf("reading confirmed draft: %w", err)
	}

	slog.Info("expense confirmed", "user_id", draft.UserID, "expense_id", draft.ID, "amount", final.Amount)

	return confirmedMessage(final), nil
}

func (p *Processor) reject(ctx context.Context, draft *expense.Expense) (string, error) {
	ok, err := p.drafts.Reject(ctx, draft.ID)
	if err != nil {
		return "", fmt.Errorf("rejecting draft: %w", err)
	}

	if !ok {
		return ReplyNoPending, nil
	}

	slog.Info("expense rejected", "user_id", draft.UserID, "expense_id", draft.ID)

	return ReplyRejected, nil
}

// selectMerchant binds the n-th candidate for the draft's merchant text. The
// list is recomputed, so ok is false when n no longer indexes it.
func (p *Processor) selectMerchant(ctx context.Context, draft *expense.Expense, n int) (string, bool, error) {
	candidates, err := p.merchants.FindCandidates(ctx, draft.MerchantName)
	if err != nil {
		return "", false, fmt.Errorf("finding merchant candidates: %w", err)
	}

	if n > len(candidates) {
		return "", false, nil
	}

	selected := candidates[n-1]

	err = p.updateDraft(ctx, draft.ID, expense.Update{MerchantID: &selected.ID, MerchantName: &selected.Name})
	if errors.Is(err, expense.ErrNotFound) {
		return ReplyNoPending, true, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("selecting merchant: %w", err)
	}

	return selectedMessage(selected.Name), true, nil
}

// updateDraft applies u only while the draft is still pending, so a reply
// racing a confirmation cannot rewrite the saved expense.
func (p *Processor) updateDraft(ctx context.Context, id uuid.UUID, u expense.Update) error {
	u.OnlyPending = true

	return p.drafts.Update(ctx, id, u)
}

func (p *Processor) correct(ctx context.Context, draft *expense.Expense, text string) (string, error) {
	corr, err := p.extractor.InterpretCorrection(ctx, draft, text)
	if err != nil {
		slog.Warn("correction not interpreted", "expense_id", draft.ID, "error", err)
		corr = extract.Correction{}
	}

	if corr.Amount != nil && *corr.Amount < 0 {
		corr.Amount = nil
	}

	if corr.IsEmpty() {
		return ReplyNotUnderstood, nil
	}

	var (
		u      expense.Update
		notice string
	)

	if corr.CardName != nil {
		matches, err := p.cards.FindByName(ctx, draft.UserID, *corr.CardName)
		if err != nil {
			return "", fmt.Errorf("finding card: %w", err)
		}

		switch len(matches) {
		case 0:
			all, err := p.cards.List(ctx, draft.UserID)
			if err != nil {
				return "", fmt.Errorf("listing cards: %w", err)
			}

			if len(all) == 0 {
				return noCardsMessage(*corr.CardName), nil
			}

			return cardNotFoundMessage(*corr.CardName, all), nil
		case 1:
			u.CardID = &matches[0].ID
			u.PaymentMethod = new(expense.PaymentCredit)
			notice = cardAssignedMessage(matches[0].Name)
		default:
			return ambiguousCardsMessage(*corr.CardName, matches), nil
		}
	}

	if corr.PaymentMethod != nil {
		u.PaymentMethod = corr.PaymentMethod

		if *corr.PaymentMethod != expense.PaymentCredit {
			u.CardID = nil
			u.ClearCard = true
			notice = ""
		}
	}

	u.Amount = corr.Amount
	u.Category = corr.Category
	u.Date = corr.Date
	u.DocumentNumber = corr.DocumentNumber

	if corr.Merchant != nil {
		// The old catalog link no longer describes the typed name.
		u.MerchantName = corr.Merchant
		u.ClearMerchant = true
	}

	if err := p.updateDraft(ctx, draft.ID, u); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			return ReplyNoPending, nil
		}

		return "", fmt.Errorf("updating draft: %w", err)
	}

	if corr.Merchant != nil {
		candidates, err := p.merchants.FindCandidates(ctx, *corr.Merchant)
		if err != nil {
			return "", fmt.Errorf("finding merchant candidates: %w", err)
		}

		switch {
		case len(candidates) > 1:
			return notice + merchantListMessage(*corr.Merchant, candidates), nil
		case len(candidates) == 1:
			m := candidates[0]

			err := p.updateDraft(ctx, draft.ID, expense.Update{MerchantID: &m.ID, MerchantName: &m.Name})
			if errors.Is(err, expense.ErrNotFound) {
				return ReplyNoPending, nil
			}

			if err != nil {
				return "", fmt.Errorf("binding merchant: %w", err)
			}
		}
	}

	updated, err := p.drafts.Get(ctx, draft.ID)
	if err != nil {
		return "", fmt.Errorf("reading updated draft: %w", err)
	}

	return notice + updatedMessage(updated), nil
}
