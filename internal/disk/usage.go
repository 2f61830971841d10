package disk

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/sys/unix"

	"statusfeeds/internal/fetcher"
)

var hundred = decimal.NewFromInt(100)

// statfs is swapped out in tests.
var statfs = unix.Statfs

// UsageFetcher reports the share of blocks in use on the filesystem holding path
type UsageFetcher struct {
	path string
}

// NewUsageFetcher creates a new filesystem usage fetcher. The path must
// exist when Fetch runs; it does not need to be a mount point.
func NewUsageFetcher(path string) *UsageFetcher {
	return &UsageFetcher{path: path}
}

// Fetch returns the used percentage, rounded up to an integer
func (f *UsageFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, fetcher.NewSourceUnavailableError("statfs skipped", err)
	}

	total, free, err := blockCounts(f.path)
	if err != nil {
		return decimal.Zero, err
	}

	return UsedPercentage(total, free)
}

// Key returns the log key for this fetcher
func (f *UsageFetcher) Key() string {
	return fmt.Sprintf("fetcher:disk:%s", f.path)
}

// blockCounts returns the total and free block counts of the filesystem
// containing path.
func blockCounts(path string) (total, free uint64, err error) {
	var stat unix.Statfs_t

	if err := statfs(path, &stat); err != nil {
		fe := fetcher.NewSourceUnavailableError(fmt.Sprintf("statfs %s failed", path), err)
		var errno unix.Errno
		if errors.As(err, &errno) {
			fe.StatusCode = int(errno)
		}
		return 0, 0, fe
	}

	return uint64(stat.Blocks), uint64(stat.Bfree), nil
}

// UsedPercentage returns ceil((total-free)/total*100) computed exactly.
// A filesystem reporting no blocks at all is treated as unavailable.
func UsedPercentage(total, free uint64) (decimal.Decimal, error) {
	if total == 0 {
		return decimal.Zero, fetcher.NewSourceUnavailableError("filesystem reports zero total blocks", nil)
	}
	if free > total {
		free = total
	}

	used := decimal.NewFromBigInt(new(big.Int).SetUint64(total-free), 0)
	all := decimal.NewFromBigInt(new(big.Int).SetUint64(total), 0)

	q, r := used.Mul(hundred).QuoRem(all, 0)
	if r.Sign() > 0 {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q, nil
}
