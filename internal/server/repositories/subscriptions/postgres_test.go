package subscriptions

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func mustNewSubscription(t *testing.T, email, name string) domain.NewSubscription {
	t.Helper()
	e, err := domain.ParseSubscriberEmail(email)
	require.NoError(t, err)
	n, err := domain.ParseSubscriberName(name)
	require.NoError(t, err)
	return domain.NewSubscription{Email: e, Name: n}
}

func TestCreateSubscriptionAndStoreToken_CommitsBothInserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WithArgs(sqlmock.AnyArg(), "ursula@example.com", "Ursula", string(domain.StatusPendingConfirmation)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscription_tokens`)).
		WithArgs("tok", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub, err := repo.CreateSubscriptionAndStoreToken(context.Background(),
		mustNewSubscription(t, "ursula@example.com", "Ursula"), "tok")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, domain.StatusPendingConfirmation, sub.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscriptionAndStoreToken_DuplicateEmailRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subscriptions_email_key"})
	mock.ExpectRollback()

	_, err := repo.CreateSubscriptionAndStoreToken(context.Background(),
		mustNewSubscription(t, "ursula@example.com", "Ursula"), "tok")

	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSubscriptionAndStoreToken_DuplicateTokenFailsLoudly(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscription_tokens`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subscription_tokens_pkey"})
	mock.ExpectRollback()

	_, err := repo.CreateSubscriptionAndStoreToken(context.Background(),
		mustNewSubscription(t, "ursula@example.com", "Ursula"), "tok")

	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubscriptionByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, status FROM subscriptions`)).
		WithArgs("ursula@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "status"}).
			AddRow(id, "ursula@example.com", "Ursula", "confirmed"))

	sub, err := repo.GetSubscriptionByEmail(context.Background(), mustNewSubscription(t, "ursula@example.com", "x").Email)
	require.NoError(t, err)

	assert.Equal(t, id, sub.ID)
	assert.Equal(t, domain.StatusConfirmed, sub.Status)
	assert.Equal(t, "Ursula", sub.Name.String())
}

func TestGetSubscriptionByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, status FROM subscriptions`)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSubscriptionByEmail(context.Background(), mustNewSubscription(t, "ghost@example.com", "x").Email)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetSubscriberIDByToken(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT subscriber_id FROM subscription_tokens`)).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"subscriber_id"}).AddRow(id))

	got, err := repo.GetSubscriberIDByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT subscriber_id FROM subscription_tokens`)).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetSubscriberIDByToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetTokenBySubscriberID(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT subscription_token FROM subscription_tokens`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"subscription_token"}).AddRow("tok"))

	token, err := repo.GetTokenBySubscriberID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestConfirmSubscriberByIDAndDeleteToken_SingleTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET status`)).
		WithArgs(string(domain.StatusConfirmed), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_tokens`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ConfirmSubscriberByIDAndDeleteToken(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmSubscriberByIDAndDeleteToken_RollbackOnDeleteError(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE subscriptions SET status`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_tokens`)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ConfirmSubscriberByIDAndDeleteToken(context.Background(), id)
	assert.ErrorIs(t, err, common.ErrorStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConfirmedSubscribersEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email FROM subscriptions`)).
		WithArgs(string(domain.StatusConfirmed)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("a@example.com").
			AddRow("b@example.com"))

	emails, err := repo.GetConfirmedSubscribersEmail(context.Background())
	require.NoError(t, err)

	require.Len(t, emails, 2)
	assert.Equal(t, "a@example.com", emails[0].String())
	assert.Equal(t, "b@example.com", emails[1].String())
}

func TestGetConfirmedSubscribersEmail_InvalidStoredEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email FROM subscriptions`)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("not-an-email"))

	_, err := repo.GetConfirmedSubscribersEmail(context.Background())
	assert.Error(t, err)
}
