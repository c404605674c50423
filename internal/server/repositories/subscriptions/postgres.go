package subscriptions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/google/uuid"
)

// PostgresRepository holds the full *sql.DB rather than a dbx.DBTX because
// the lifecycle transitions open their own transactions.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSubscriptionAndStoreToken(ctx context.Context, sub domain.NewSubscription, token string) (*domain.Subscription, error) {

	created := &domain.Subscription{
		ID:     uuid.New(),
		Email:  sub.Email,
		Name:   sub.Name,
		Status: domain.StatusPendingConfirmation,
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO subscriptions (id, email, name, status)
			 VALUES ($1, $2, $3, $4)
			 `
		if _, err := tx.ExecContext(ctx, query,
			created.ID, created.Email.String(), created.Name.String(), created.Status); err != nil {
			return err
		}

		query =
			`INSERT INTO subscription_tokens (subscription_token, subscriber_id)
			 VALUES ($1, $2)
			 `
		_, err := tx.ExecContext(ctx, query, token, created.ID)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.MapError(err))
	}

	return created, nil
}

func (r *PostgresRepository) GetSubscriptionByEmail(ctx context.Context, email domain.SubscriberEmail) (*domain.Subscription, error) {
	query :=
		`SELECT id, email, name, status FROM subscriptions
		 WHERE email = $1
		 `

	var (
		id       uuid.UUID
		rawEmail string
		rawName  string
		status   string
	)

	err := r.db.QueryRowContext(ctx, query, email.String()).Scan(&id, &rawEmail, &rawName, &status)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	parsedEmail, err := domain.ParseSubscriberEmail(rawEmail)
	if err != nil {
		return nil, fmt.Errorf("db error: stored email is invalid: %w", err)
	}
	parsedName, err := domain.ParseSubscriberName(rawName)
	if err != nil {
		return nil, fmt.Errorf("db error: stored name is invalid: %w", err)
	}

	return &domain.Subscription{
		ID:     id,
		Email:  parsedEmail,
		Name:   parsedName,
		Status: domain.SubscriptionStatus(status),
	}, nil
}

func (r *PostgresRepository) GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error) {
	query :=
		`SELECT subscriber_id FROM subscription_tokens
		 WHERE subscription_token = $1
		 `

	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&id); err != nil {
		return uuid.Nil, dbx.MapError(err)
	}

	return id, nil
}

func (r *PostgresRepository) GetTokenBySubscriberID(ctx context.Context, id uuid.UUID) (string, error) {
	query :=
		`SELECT subscription_token FROM subscription_tokens
		 WHERE subscriber_id = $1
		 `

	var token string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&token); err != nil {
		return "", dbx.MapError(err)
	}

	return token, nil
}

func (r *PostgresRepository) ConfirmSubscriberByIDAndDeleteToken(ctx context.Context, id uuid.UUID) error {

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`UPDATE subscriptions SET status = $1
			 WHERE id = $2
			 `
		if _, err := tx.ExecContext(ctx, query, domain.StatusConfirmed, id); err != nil {
			return err
		}

		query =
			`DELETE FROM subscription_tokens
			 WHERE subscriber_id = $1
			 `
		_, err := tx.ExecContext(ctx, query, id)
		return err
	})

	if err != nil {
		return fmt.Errorf("db error: %w", dbx.MapError(err))
	}

	return nil
}

func (r *PostgresRepository) GetConfirmedSubscribersEmail(ctx context.Context) ([]domain.SubscriberEmail, error) {
	query :=
		`SELECT email FROM subscriptions
		 WHERE status = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, domain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.MapError(err))
	}
	defer rows.Close()

	var emails []domain.SubscriberEmail
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("db error: %w", dbx.MapError(err))
		}
		parsed, err := domain.ParseSubscriberEmail(raw)
		if err != nil {
			return nil, fmt.Errorf("db error: stored email is invalid: %w", err)
		}
		emails = append(emails, parsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.MapError(err))
	}

	return emails, nil
}
