package core

// Utoa converts an unsigned integer to its base-10 text
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	// 4294967295 is ten digits
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}
