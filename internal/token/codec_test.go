package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// テスト用の時計（手で進める）
// =====================

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCodec(clock Clock) *Codec {
	secret := []byte("0123456789abcdef0123456789abcdef")
	return NewCodec(secret, 15*time.Minute, 7*24*time.Hour, 5*time.Minute, clock)
}

func testSubject() Subject {
	return Subject{
		UserID: "user-1",
		Email:  "admin@kabirsantsharan.com",
		Name:   "Admin",
		Role:   "ADMIN",
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	pair, err := codec.Issue(testSubject(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, clock.now.Add(15*time.Minute), pair.AccessExpiresAt)
	assert.Equal(t, clock.now.Add(7*24*time.Hour), pair.RefreshExpiresAt)
	assert.True(t, pair.AccessExpiresAt.After(clock.now))

	res := codec.Verify(pair.AccessToken)
	require.True(t, res.Valid)
	assert.Equal(t, "user-1", res.Claims.UserID)
	assert.Equal(t, "sess-1", res.Claims.SessionID)
	assert.Equal(t, TypeAccess, res.Claims.TokenType)

	resRefresh := codec.Verify(pair.RefreshToken)
	require.True(t, resRefresh.Valid)
	assert.Equal(t, TypeRefresh, resRefresh.Claims.TokenType)
}

func TestVerify_ExpiredAfterAccessTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	pair, err := codec.Issue(testSubject(), "sess-1")
	require.NoError(t, err)

	//発行直後は有効
	res := codec.Verify(pair.AccessToken)
	assert.True(t, res.Valid)

	//TTLを超えて進めると期限切れ
	clock.Advance(15*time.Minute + time.Second)

	res = codec.Verify(pair.AccessToken)
	assert.False(t, res.Valid)
	assert.Equal(t, KindExpired, res.Kind)
}

// 有効なトークンのどの1文字を変えても検証に通らないこと
func TestVerify_SingleCharTamper(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	pair, err := codec.Issue(testSubject(), "sess-1")
	require.NoError(t, err)

	raw := pair.AccessToken
	for i := 0; i < len(raw); i++ {
		flipped := byte('A')
		if raw[i] == 'A' {
			flipped = 'B'
		}

		tampered := raw[:i] + string(flipped) + raw[i+1:]
		if tampered == raw {
			continue
		}

		res := codec.Verify(tampered)
		assert.False(t, res.Valid, "tampered at index %d must not verify", i)
	}
}

func TestVerify_Malformed(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	codec := newTestCodec(clock)

	for _, raw := range []string{"", "not.a.jwt", "aaaa", "a.b"} {
		res := codec.Verify(raw)
		assert.False(t, res.Valid)
		assert.Equal(t, KindMalformed, res.Kind)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	codec := newTestCodec(clock)

	other := NewCodec([]byte("another-secret-another-secret-32"), 15*time.Minute, 7*24*time.Hour, 5*time.Minute, clock)

	pair, err := other.Issue(testSubject(), "sess-1")
	require.NoError(t, err)

	res := codec.Verify(pair.AccessToken)
	assert.False(t, res.Valid)
	assert.Equal(t, KindBadSignature, res.Kind)
}

func TestNearExpiry_Boundary(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(clock)

	pair, err := codec.Issue(testSubject(), "sess-1")
	require.NoError(t, err)

	res := codec.Verify(pair.AccessToken)
	require.True(t, res.Valid)

	//残り10分：まだ近くない
	clock.Advance(5 * time.Minute)
	assert.False(t, codec.NearExpiry(res.Claims))

	//残りちょうど5分（閾値と等しい）：近い扱い
	clock.Advance(5 * time.Minute)
	assert.True(t, codec.NearExpiry(res.Claims))

	//それ以降も近い
	clock.Advance(time.Minute)
	assert.True(t, codec.NearExpiry(res.Claims))
}
