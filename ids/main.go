package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const (
	prefix         = "SNP"
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// 9 base-36 characters carry ~46.5 bits of entropy
	suffixLength = 9
)

/*
Analysis identifiers are URL- and log-safe, unique with
overwhelming probability across concurrent callers, and
sortable by creation time :

	SNP_<base-36 millisecond timestamp><base-36 random suffix>

Generation never fails; if the system CSPRNG is starved the
read below blocks until it recovers.
*/
func NewAnalysisId() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("%s_%s%s", prefix, timestamp, randomBase36(suffixLength))
}

func randomBase36(length int) string {
	max := big.NewInt(int64(len(base36Alphabet)))

	suffix := make([]byte, length)
	for i := 0; i < length; {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand reads from the kernel CSPRNG and only
			// errors if the randomness source is unusable; retry
			// until it recovers rather than ever failing generation
			continue
		}
		suffix[i] = base36Alphabet[n.Int64()]
		i++
	}
	return string(suffix)
}
