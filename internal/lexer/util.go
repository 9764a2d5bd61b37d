package lexer

const utf8RuneSelf = 0x80

// PHP labels accept any byte >= 0x80, so multibyte names need no decoding.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b >= utf8RuneSelf
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

func isOct(b byte) bool { return b >= '0' && b <= '7' }

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\v' || b == '\f'
}

func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

func (lx *Lexer) text(m Mark) string {
	sp := lx.cursor.SpanFrom(m)
	return string(lx.file.Content[sp.Start:sp.End])
}
