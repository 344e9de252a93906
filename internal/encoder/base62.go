package encoder

import "strings"

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const base = uint64(len(alphabet))

// Encode converts a number to a base62 string
func Encode(num uint64) string {
	if num == 0 {
		return string(alphabet[0])
	}

	// 64 bits never need more than 11 base62 digits
	var buf [11]byte
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = alphabet[num%base]
		num /= base
	}

	return string(buf[i:])
}

// Decode converts a base62 string back to a number
func Decode(encoded string) uint64 {
	var num uint64
	for i := 0; i < len(encoded); i++ {
		num = num*base + uint64(strings.IndexByte(alphabet, encoded[i]))
	}
	return num
}
