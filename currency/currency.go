// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package currency implements a lockable balance ledger over keyed storage.
//
// Locks on one account overlap rather than stack: the locked amount is the
// largest single lock, and only the free balance above it can be transferred.
package currency

import (
	"github.com/pkg/errors"

	"github.com/schoollys/atlas2/atlas"
	"github.com/schoollys/atlas2/log"
	"github.com/schoollys/atlas2/staker/reverts"
	"github.com/schoollys/atlas2/storage"
)

var logger = log.WithContext("pkg", "currency")

var (
	ErrInsufficientBalance   = reverts.Register("InsufficientBalance", reverts.New("insufficient balance"))
	ErrLiquidityRestrictions = reverts.Register("LiquidityRestrictions", reverts.New("balance is locked"))
)

// LockID names a lock, one per purpose.
type LockID string

// Lock is a named amount that cannot leave the account.
type Lock struct {
	ID     LockID
	Amount atlas.Balance
}

type account struct {
	Free  atlas.Balance
	Locks []Lock
}

func (a *account) locked() atlas.Balance {
	var largest atlas.Balance
	for _, l := range a.Locks {
		if l.Amount.Gt(largest) {
			largest = l.Amount
		}
	}
	return largest
}

func (a *account) isEmpty() bool {
	return a.Free.IsZero() && len(a.Locks) == 0
}

// Ledger keeps free balances, locks and the total issuance.
type Ledger struct {
	accounts *storage.Mapping[atlas.Address, *account]
	issuance *storage.Value[atlas.Balance]
	ceiling  *storage.Value[atlas.Balance]
}

func New(sctx *storage.Context) *Ledger {
	return &Ledger{
		accounts: storage.NewMapping[atlas.Address, *account](sctx, "accounts"),
		issuance: storage.NewValue[atlas.Balance](sctx, "total-issuance"),
		ceiling:  storage.NewValue[atlas.Balance](sctx, "issuance-ceiling"),
	}
}

func (l *Ledger) getAccount(who atlas.Address) (*account, error) {
	acc, err := l.accounts.Get(who)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if acc == nil {
		acc = &account{}
	}
	return acc, nil
}

func (l *Ledger) setAccount(who atlas.Address, acc *account) error {
	if acc.isEmpty() {
		l.accounts.Delete(who)
		return nil
	}
	if err := l.accounts.Set(who, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// Free returns the free balance, including any locked part.
func (l *Ledger) Free(who atlas.Address) (atlas.Balance, error) {
	acc, err := l.getAccount(who)
	if err != nil {
		return atlas.Balance{}, err
	}
	return acc.Free, nil
}

// Locked returns the largest lock on the account.
func (l *Ledger) Locked(who atlas.Address) (atlas.Balance, error) {
	acc, err := l.getAccount(who)
	if err != nil {
		return atlas.Balance{}, err
	}
	return acc.locked(), nil
}

// Usable returns the part of the free balance not covered by locks.
func (l *Ledger) Usable(who atlas.Address) (atlas.Balance, error) {
	acc, err := l.getAccount(who)
	if err != nil {
		return atlas.Balance{}, err
	}
	return acc.Free.Sub(acc.locked()), nil
}

// Locks lists the locks on the account.
func (l *Ledger) Locks(who atlas.Address) ([]Lock, error) {
	acc, err := l.getAccount(who)
	if err != nil {
		return nil, err
	}
	return acc.Locks, nil
}

// TotalIssuance returns the sum of all free balances.
func (l *Ledger) TotalIssuance() (atlas.Balance, error) {
	return l.issuance.Get()
}

// SetIssuanceCeiling caps the total issuance. Zero removes the cap.
func (l *Ledger) SetIssuanceCeiling(ceiling atlas.Balance) error {
	if ceiling.IsZero() {
		l.ceiling.Delete()
		return nil
	}
	return l.ceiling.Set(ceiling)
}

// Lock sets the lock named id to amount, replacing its previous value.
// A zero amount removes the lock.
func (l *Ledger) Lock(id LockID, who atlas.Address, amount atlas.Balance) error {
	acc, err := l.getAccount(who)
	if err != nil {
		return err
	}

	replaced := false
	locks := acc.Locks[:0]
	for _, lock := range acc.Locks {
		if lock.ID == id {
			replaced = true
			if amount.IsZero() {
				continue
			}
			lock.Amount = amount
		}
		locks = append(locks, lock)
	}
	if !replaced && !amount.IsZero() {
		locks = append(locks, Lock{ID: id, Amount: amount})
	}
	acc.Locks = locks
	return l.setAccount(who, acc)
}

// RemoveLock removes the lock named id, if any.
func (l *Ledger) RemoveLock(id LockID, who atlas.Address) error {
	return l.Lock(id, who, atlas.Balance{})
}

// DepositCreating mints amount into the account. The credited amount falls short
// of amount only when the issuance ceiling is reached.
func (l *Ledger) DepositCreating(who atlas.Address, amount atlas.Balance) (atlas.Balance, error) {
	if amount.IsZero() {
		return atlas.Balance{}, nil
	}
	issuance, err := l.issuance.Get()
	if err != nil {
		return atlas.Balance{}, errors.Wrap(err, "failed to get issuance")
	}
	ceiling, err := l.ceiling.Get()
	if err != nil {
		return atlas.Balance{}, errors.Wrap(err, "failed to get issuance ceiling")
	}

	credited := amount
	if !ceiling.IsZero() {
		credited = atlas.MinBalance(amount, ceiling.Sub(issuance))
		if credited.Lt(amount) {
			logger.Debug("deposit capped by issuance ceiling", "who", who, "amount", amount, "credited", credited)
		}
	}
	if credited.IsZero() {
		return credited, nil
	}

	acc, err := l.getAccount(who)
	if err != nil {
		return atlas.Balance{}, err
	}
	acc.Free = acc.Free.Add(credited)
	if err := l.setAccount(who, acc); err != nil {
		return atlas.Balance{}, err
	}
	if err := l.issuance.Set(issuance.Add(credited)); err != nil {
		return atlas.Balance{}, err
	}
	return credited, nil
}

// Slash burns up to amount from the free balance, locked or not, and returns the burnt amount.
func (l *Ledger) Slash(who atlas.Address, amount atlas.Balance) (atlas.Balance, error) {
	acc, err := l.getAccount(who)
	if err != nil {
		return atlas.Balance{}, err
	}
	slashed := atlas.MinBalance(amount, acc.Free)
	if slashed.IsZero() {
		return slashed, nil
	}
	acc.Free = acc.Free.Sub(slashed)
	if err := l.setAccount(who, acc); err != nil {
		return atlas.Balance{}, err
	}

	issuance, err := l.issuance.Get()
	if err != nil {
		return atlas.Balance{}, errors.Wrap(err, "failed to get issuance")
	}
	if err := l.issuance.Set(issuance.Sub(slashed)); err != nil {
		return atlas.Balance{}, err
	}
	return slashed, nil
}

// Transfer moves amount between accounts, never touching locked balance.
func (l *Ledger) Transfer(from, to atlas.Address, amount atlas.Balance) error {
	src, err := l.getAccount(from)
	if err != nil {
		return err
	}
	if src.Free.Lt(amount) {
		return ErrInsufficientBalance
	}
	if src.Free.Sub(src.locked()).Lt(amount) {
		return ErrLiquidityRestrictions
	}
	if from == to || amount.IsZero() {
		return nil
	}

	src.Free = src.Free.Sub(amount)
	if err := l.setAccount(from, src); err != nil {
		return err
	}
	dst, err := l.getAccount(to)
	if err != nil {
		return err
	}
	dst.Free = dst.Free.Add(amount)
	return l.setAccount(to, dst)
}
