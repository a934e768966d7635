package chat

import (
	"math/rand"
	"strconv"
)

// RandomOrderNumber returns a four digit display number. It is not unique
// across sessions and must not be used as a storage key on its own.
func RandomOrderNumber() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
