package repository

import (
	"context"

	"revqr-engine/internal/infra"

	"github.com/google/uuid"
)

type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

// Debit subtracts amount from the user's wallet. The balance guard in the
// WHERE clause makes the debit and the check one atomic statement; zero
// rows means the balance was insufficient (or the wallet is missing).
func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount int64) error {
	query := `
		UPDATE wallets
		SET qr_coin_balance = qr_coin_balance - $2, updated_at = now()
		WHERE user_id = $1 AND qr_coin_balance >= $2`

	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		return infra.WrapRepoErr("failed to debit wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient balance", nil, infra.KindConflict)
	}
	return nil
}
