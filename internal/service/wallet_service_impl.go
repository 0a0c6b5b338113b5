// internal/service/wallet_service_impl.go
package service

import (
	"context"
	"fmt"

	"github.com/nadzifan/quran-companion-be/internal/models"
	"github.com/nadzifan/quran-companion-be/internal/repository"
)

type walletServiceImpl struct {
	walletRepo repository.WalletRepository
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(walletRepo repository.WalletRepository) WalletService {
	return &walletServiceImpl{walletRepo: walletRepo}
}

// GetWallet mengambil saldo user; wallet nol dibuat lazy di repository.
func (s *walletServiceImpl) GetWallet(ctx context.Context, userID int) (*models.UserWallet, error) {
	wallet, err := s.walletRepo.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("internal server error: could not load wallet")
	}
	return wallet, nil
}

// GetHistory mengambil riwayat ledger user (paginated).
func (s *walletServiceImpl) GetHistory(ctx context.Context, userID int, page, limit int) ([]models.RewardLedgerEntry, int, error) {
	entries, total, err := s.walletRepo.GetLedgerByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("internal server error: could not load reward history")
	}
	return entries, total, nil
}
