package subscription

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDLength length of generated subscriber id
const IDLength = 12

// IDGenerator func for generate subscriber id
type IDGenerator func() string

// GenerateID random uuid salted with current time, hashed and truncated
func GenerateID() string {
	sum := sha1.Sum([]byte(uuid.NewString() + strconv.FormatInt(time.Now().UnixNano(), 10)))
	return hex.EncodeToString(sum[:])[:IDLength]
}
