package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFTokenRoundTrip(t *testing.T) {
	m := NewCSRFManager("csrfsecret")

	token := m.Token("record-1")
	require.NoError(t, m.Verify("record-1", token))
	require.ErrorIs(t, m.Verify("record-2", token), ErrCSRFTokenMismatch)
	require.ErrorIs(t, m.Verify("record-1", ""), ErrCSRFTokenMissing)
}

func TestCSRFTokenDependsOnSecret(t *testing.T) {
	a := NewCSRFManager("one")
	b := NewCSRFManager("two")
	require.NotEqual(t, a.Token("record-1"), b.Token("record-1"))
}
