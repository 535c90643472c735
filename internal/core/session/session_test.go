package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/box-webauth/internal/core/domain"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven/mocks"
)

func newTestSession() (*Session, *mocks.MockSessionStore) {
	store := mocks.NewMockSessionStore()
	return New("sess-1", store, mocks.MockSecretSealer{}), store
}

func TestSession_Stash(t *testing.T) {
	sess, store := newTestSession()
	ctx := context.Background()

	err := sess.Stash(ctx, domain.ClientCredentials{ClientID: "id1", ClientSecret: "secret1"}, "token-1")
	require.NoError(t, err)

	values := store.Values("sess-1")
	assert.Equal(t, "id1", values[domain.SessionKeyClientID])
	assert.Equal(t, "sealed:secret1", values[domain.SessionKeyClientSecret], "secret must be sealed at rest")
	assert.Equal(t, "token-1", values[domain.SessionKeyState])
}

func TestSession_Stash_Overwrites(t *testing.T) {
	sess, store := newTestSession()
	ctx := context.Background()

	require.NoError(t, sess.Stash(ctx, domain.ClientCredentials{ClientID: "old", ClientSecret: "old"}, "token-old"))
	require.NoError(t, sess.Stash(ctx, domain.ClientCredentials{ClientID: "new", ClientSecret: "new"}, "token-new"))

	values := store.Values("sess-1")
	assert.Equal(t, "new", values[domain.SessionKeyClientID])
	assert.Equal(t, "token-new", values[domain.SessionKeyState])
}

func TestSession_Credentials(t *testing.T) {
	sess, _ := newTestSession()
	ctx := context.Background()

	require.NoError(t, sess.Stash(ctx, domain.ClientCredentials{ClientID: "id1", ClientSecret: "secret1"}, "token-1"))

	creds, err := sess.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ClientCredentials{ClientID: "id1", ClientSecret: "secret1"}, creds)
}

func TestSession_Credentials_Empty(t *testing.T) {
	sess, _ := newTestSession()

	creds, err := sess.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ClientCredentials{}, creds)
}

func TestSession_Credentials_TamperedSecret(t *testing.T) {
	sess, store := newTestSession()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", map[string]string{
		domain.SessionKeyClientID:     "id1",
		domain.SessionKeyClientSecret: "not-sealed",
	}))

	_, err := sess.Credentials(ctx)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestSession_TakeAntiForgeryToken_SingleUse(t *testing.T) {
	sess, _ := newTestSession()
	ctx := context.Background()

	require.NoError(t, sess.Stash(ctx, domain.ClientCredentials{ClientID: "id1"}, "token-1"))

	first, err := sess.TakeAntiForgeryToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	second, err := sess.TakeAntiForgeryToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestSession_Clear(t *testing.T) {
	sess, store := newTestSession()
	ctx := context.Background()

	require.NoError(t, sess.Stash(ctx, domain.ClientCredentials{ClientID: "id1", ClientSecret: "s"}, "token-1"))
	require.NoError(t, sess.Clear(ctx))

	assert.Empty(t, store.Values("sess-1"))
}

func TestSession_StoreErrorsAreWrapped(t *testing.T) {
	sess, store := newTestSession()
	store.Err = errors.New("connection refused")
	ctx := context.Background()

	err := sess.Stash(ctx, domain.ClientCredentials{ClientID: "id1"}, "token-1")
	assert.ErrorIs(t, err, store.Err)
	assert.Contains(t, err.Error(), "save session")

	_, err = sess.TakeAntiForgeryToken(ctx)
	assert.ErrorIs(t, err, store.Err)

	err = sess.Clear(ctx)
	assert.ErrorIs(t, err, store.Err)
}
