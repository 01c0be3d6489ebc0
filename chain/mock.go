package chain

import "context"

// MockService is a test double for Service. Every Fn field used by a test
// must be set.
type MockService struct {
	GetRawTxFn           func(ctx context.Context, txid string) ([]byte, error)
	GetTxStatusFn        func(ctx context.Context, txid string) (*TxStatus, error)
	GetBlockHeaderFn     func(ctx context.Context, blockHash string) ([]byte, error)
	GetBestBlockHeightFn func(ctx context.Context) (uint64, error)
}

var _ Service = (*MockService)(nil)

func (m *MockService) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	return m.GetRawTxFn(ctx, txid)
}
func (m *MockService) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
func (m *MockService) GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error) {
	return m.GetBlockHeaderFn(ctx, blockHash)
}
func (m *MockService) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	return m.GetBestBlockHeightFn(ctx)
}
