// Command keygen prints a fresh pair of cookie keys in the hex format the
// server expects in COOKIE_ENCRYPTION_KEY and COOKIE_SIGNING_KEY.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

func randomHex(length int) string {
	buf := make([]byte, length)

	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}

	return hex.EncodeToString(buf)
}

func main() {
	fmt.Println("COOKIE_ENCRYPTION_KEY=" + randomHex(16))
	fmt.Println("COOKIE_SIGNING_KEY=" + randomHex(32))
}
