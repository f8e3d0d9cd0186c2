package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `
	id, portfolio_id, symbol, type, quantity, price, date,
	is_option, option_type, strike_price, expiration_date, underlying_symbol,
	created_at
`

// GetTransactionsByPortfolio retrieves all transactions of a portfolio in replay order:
// by date, then by creation time, then by insertion order.
// Returns an empty slice if the portfolio has no transactions.
func (r *TransactionRepository) GetTransactionsByPortfolio(portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE portfolio_id = ?
		ORDER BY date ASC, created_at ASC, rowid ASC
	`

	rows, err := r.getQuerier().Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction.
// Returns ErrTransactionNotFound if no transaction with the given ID exists.
func (r *TransactionRepository) GetTransaction(transactionID string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE id = ?
	`

	t, err := scanTransaction(r.getQuerier().QueryRow(query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}

// InsertTransaction stores a new transaction. Option columns are NULL for equities.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
        INSERT INTO "transaction" (` + transactionColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	var (
		optionType, expiration, underlying sql.NullString
		strike                             sql.NullFloat64
	)
	if t.Option != nil {
		optionType = sql.NullString{String: string(t.Option.Type), Valid: true}
		strike = sql.NullFloat64{Float64: t.Option.Strike, Valid: true}
		expiration = sql.NullString{String: formatDate(t.Option.Expiration), Valid: true}
		underlying = sql.NullString{String: t.Option.Underlying, Valid: t.Option.Underlying != ""}
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Symbol,
		string(t.Type),
		t.Quantity,
		t.Price,
		formatDate(t.Date),
		t.IsOption(),
		optionType,
		strike,
		expiration,
		underlying,
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// DeleteTransaction removes a transaction of the given portfolio.
// Returns ErrTransactionNotFound if the transaction does not exist or belongs to another portfolio.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, portfolioID, transactionID string) error {
	query := `DELETE FROM "transaction" WHERE id = ? AND portfolio_id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, transactionID, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return checkAffected(result, apperrors.ErrTransactionNotFound)
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var (
		t                                  model.Transaction
		txType, dateStr, createdAtStr      string
		isOption                           bool
		optionType, expiration, underlying sql.NullString
		strike                             sql.NullFloat64
	)

	err := row.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Symbol,
		&txType,
		&t.Quantity,
		&t.Price,
		&dateStr,
		&isOption,
		&optionType,
		&strike,
		&expiration,
		&underlying,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.Type = model.TransactionType(txType)

	if t.Date, err = ParseTime(dateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}

	if !isOption {
		if optionType.Valid || strike.Valid || expiration.Valid || underlying.Valid {
			return model.Transaction{}, fmt.Errorf("%w: equity transaction %s has option columns set", apperrors.ErrDataInconsistency, t.ID)
		}
		return t, nil
	}

	if !optionType.Valid || !strike.Valid || !expiration.Valid || !underlying.Valid || underlying.String == "" {
		return model.Transaction{}, fmt.Errorf("%w: option transaction %s is missing contract details", apperrors.ErrDataInconsistency, t.ID)
	}
	exp, err := ParseTime(expiration.String)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Option = &model.OptionDetails{
		Type:       model.OptionType(optionType.String),
		Strike:     strike.Float64,
		Expiration: exp,
		Underlying: underlying.String,
	}

	return t, nil
}
