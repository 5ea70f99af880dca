package candymachine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSigner struct {
	err   error
	calls int
}

func (m *mockSigner) SignTransaction(ctx context.Context, tx *solana.Transaction, extra ...solana.PrivateKey) error {
	m.calls++
	return m.err
}

type mockNetworkClient struct {
	sendErr     error
	sendCalls   int
	statusCalls int
	reports     []StatusReport
	statusErr   error
}

func (m *mockNetworkClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	m.sendCalls++
	if m.sendErr != nil {
		return solana.Signature{}, m.sendErr
	}
	return solana.Signature{9, 9, 9}, nil
}

func (m *mockNetworkClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (StatusReport, error) {
	m.statusCalls++
	if m.statusErr != nil {
		return StatusReport{}, m.statusErr
	}
	if len(m.reports) == 0 {
		return StatusReport{}, nil
	}
	report := m.reports[0]
	if len(m.reports) > 1 {
		m.reports = m.reports[1:]
	}
	return report, nil
}

func fastPoll() PollConfig {
	return PollConfig{
		Initial:    time.Millisecond,
		Max:        5 * time.Millisecond,
		Multiplier: 2,
		Timeout:    100 * time.Millisecond,
	}
}

func testBuild(t *testing.T) *BuildResult {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return &BuildResult{
		Transaction: &solana.Transaction{},
		MintKeypair: key,
	}
}

func TestSubmit_Confirmed(t *testing.T) {
	client := &mockNetworkClient{
		reports: []StatusReport{
			{Found: false},
			{Found: true, Confirmed: false},
			{Found: true, Confirmed: true},
		},
	}
	s := NewSubmitter(client, &mockSigner{}, fastPoll(), logrus.New())

	attempt, err := s.Submit(context.Background(), testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptConfirmed, attempt.Status)
	assert.False(t, attempt.Signature.IsZero())
	assert.GreaterOrEqual(t, client.statusCalls, 3)
}

func TestSubmit_LedgerError(t *testing.T) {
	ledgerErr := map[string]interface{}{
		"InstructionError": []interface{}{float64(0), map[string]interface{}{"Custom": float64(311)}},
	}
	client := &mockNetworkClient{
		reports: []StatusReport{{Found: true, LedgerErr: ledgerErr}},
	}
	s := NewSubmitter(client, &mockSigner{}, fastPoll(), logrus.New())

	attempt, err := s.Submit(context.Background(), testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptFailed, attempt.Status)
	assert.Equal(t, ledgerErr, attempt.LedgerErr)
}

func TestSubmit_Timeout(t *testing.T) {
	client := &mockNetworkClient{} // signature never found
	s := NewSubmitter(client, &mockSigner{}, fastPoll(), logrus.New())

	attempt, err := s.Submit(context.Background(), testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptTimedOut, attempt.Status)
	assert.Greater(t, client.statusCalls, 0, "at least one poll must run before the deadline")
}

func TestSubmit_TransientStatusErrorsKeepPolling(t *testing.T) {
	client := &mockNetworkClient{statusErr: errors.New("rpc flake")}
	s := NewSubmitter(client, &mockSigner{}, fastPoll(), logrus.New())

	attempt, err := s.Submit(context.Background(), testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptTimedOut, attempt.Status)
	assert.Greater(t, client.statusCalls, 1)
}

func TestSubmit_SigningRejected(t *testing.T) {
	client := &mockNetworkClient{}
	signer := &mockSigner{err: errors.New("user declined")}
	s := NewSubmitter(client, signer, fastPoll(), logrus.New())

	_, err := s.Submit(context.Background(), testBuild(t))
	var signingErr *SigningError
	require.ErrorAs(t, err, &signingErr)
	assert.Zero(t, client.sendCalls, "rejected signing must never submit")
}

func TestSubmit_SubmissionRejected(t *testing.T) {
	client := &mockNetworkClient{sendErr: errors.New("blockhash not found")}
	s := NewSubmitter(client, &mockSigner{}, fastPoll(), logrus.New())

	_, err := s.Submit(context.Background(), testBuild(t))
	var submissionErr *SubmissionError
	require.ErrorAs(t, err, &submissionErr)
	assert.Zero(t, client.statusCalls, "nothing to poll after an RPC rejection")
}

func TestSubmit_ContextCancelIsTimeout(t *testing.T) {
	client := &mockNetworkClient{}
	s := NewSubmitter(client, &mockSigner{}, PollConfig{
		Initial:    50 * time.Millisecond,
		Max:        50 * time.Millisecond,
		Multiplier: 1,
		Timeout:    10 * time.Second,
	}, logrus.New())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	attempt, err := s.Submit(ctx, testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptTimedOut, attempt.Status)
}

func TestSubmit_BackoffClampedToMax(t *testing.T) {
	client := &mockNetworkClient{}
	start := time.Now()
	s := NewSubmitter(client, &mockSigner{}, PollConfig{
		Initial:    time.Millisecond,
		Max:        2 * time.Millisecond,
		Multiplier: 10,
		Timeout:    30 * time.Millisecond,
	}, logrus.New())

	attempt, err := s.Submit(context.Background(), testBuild(t))
	require.NoError(t, err)
	assert.Equal(t, AttemptTimedOut, attempt.Status)
	// With the interval clamped at 2ms the loop polls many times
	assert.Greater(t, client.statusCalls, 5)
	assert.Less(t, time.Since(start), time.Second)
}
