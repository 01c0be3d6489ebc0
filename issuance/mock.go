package issuance

import "context"

// MockClient is a test double for Client.
// All function fields must be set before the corresponding method is called.
type MockClient struct {
	DeliverFn   func(ctx context.Context, msgs []Message) error
	NumTokensFn func(ctx context.Context, target Contract) (uint64, error)
}

func (m *MockClient) Deliver(ctx context.Context, msgs []Message) error {
	return m.DeliverFn(ctx, msgs)
}
func (m *MockClient) NumTokens(ctx context.Context, target Contract) (uint64, error) {
	return m.NumTokensFn(ctx, target)
}

// Recorder is an in-memory Client that keeps every delivered message and
// counts minted items per issuance target.
type Recorder struct {
	Messages []Message
	minted   map[Contract]uint64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{minted: make(map[Contract]uint64)}
}

func (r *Recorder) Deliver(_ context.Context, msgs []Message) error {
	for _, m := range msgs {
		r.Messages = append(r.Messages, m)
		if m.BatchMint != nil {
			r.minted[m.Contract] += uint64(len(m.BatchMint.Mints))
		}
	}
	return nil
}

func (r *Recorder) NumTokens(_ context.Context, target Contract) (uint64, error) {
	return r.minted[target], nil
}

// Mints returns every mint entry delivered so far, in delivery order.
func (r *Recorder) Mints() []Mint {
	var out []Mint
	for _, m := range r.Messages {
		if m.BatchMint != nil {
			out = append(out, m.BatchMint.Mints...)
		}
	}
	return out
}
