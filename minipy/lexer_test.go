package minipy

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tok(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal}
}

// collectTokens drains the lexer into a slice, starting with the token the
// constructor already produced and ending with the first EOF.
func collectTokens(t *testing.T, source string) []Token {
	t.Helper()

	lx, err := NewLexer(source)
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}

	tokens := []Token{lx.CurrentToken()}
	for lx.CurrentToken().Type != TokenEOF {
		next, err := lx.NextToken()
		if err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
		tokens = append(tokens, next)
	}
	return tokens
}

func TestLexerSimpleAssignment(t *testing.T) {
	got := collectTokens(t, "x = 42\n")
	want := []Token{
		tok(TokenID, "x"),
		tok(TokenChar, "="),
		tok(TokenNumber, "42"),
		tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	got := collectTokens(t, "class return if else def print and or not None True False classes\n")
	want := []Token{
		tok(TokenClass, ""),
		tok(TokenReturn, ""),
		tok(TokenIf, ""),
		tok(TokenElse, ""),
		tok(TokenDef, ""),
		tok(TokenPrint, ""),
		tok(TokenAnd, ""),
		tok(TokenOr, ""),
		tok(TokenNot, ""),
		tok(TokenNone, ""),
		tok(TokenTrue, ""),
		tok(TokenFalse, ""),
		tok(TokenID, "classes"),
		tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerOperators(t *testing.T) {
	got := collectTokens(t, "a == b != c <= d >= e < f > g = !h\n")
	want := []Token{
		tok(TokenID, "a"),
		tok(TokenEQ, ""),
		tok(TokenID, "b"),
		tok(TokenNotEQ, ""),
		tok(TokenID, "c"),
		tok(TokenLTE, ""),
		tok(TokenID, "d"),
		tok(TokenGTE, ""),
		tok(TokenID, "e"),
		tok(TokenChar, "<"),
		tok(TokenID, "f"),
		tok(TokenChar, ">"),
		tok(TokenID, "g"),
		tok(TokenChar, "="),
		tok(TokenChar, "!"),
		tok(TokenID, "h"),
		tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerIndentDedent(t *testing.T) {
	source := "" +
		"if x:\n" +
		"  if y:\n" +
		"    print z\n" +
		"print w\n"

	got := collectTokens(t, source)
	want := []Token{
		tok(TokenIf, ""), tok(TokenID, "x"), tok(TokenChar, ":"), tok(TokenNewline, ""),
		tok(TokenIndent, ""),
		tok(TokenIf, ""), tok(TokenID, "y"), tok(TokenChar, ":"), tok(TokenNewline, ""),
		tok(TokenIndent, ""),
		tok(TokenPrint, ""), tok(TokenID, "z"), tok(TokenNewline, ""),
		tok(TokenDedent, ""),
		tok(TokenDedent, ""),
		tok(TokenPrint, ""), tok(TokenID, "w"), tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerIndentsBalanced(t *testing.T) {
	sources := []string{
		"if a:\n  if b:\n    x = 1\n",
		"class C:\n  def m():\n    if a:\n      return 1\n",
		"if a:\n  x = 1\nif b:\n  y = 2\n",
		"if a:\n  if b:\n    if c:\n      x = 1",
	}
	for _, source := range sources {
		indents, dedents := 0, 0
		for _, tk := range collectTokens(t, source) {
			switch tk.Type {
			case TokenIndent:
				indents++
			case TokenDedent:
				dedents++
			}
		}
		if indents != dedents {
			t.Errorf("source %q: %d indents vs %d dedents", source, indents, dedents)
		}
	}
}

func TestLexerNoConsecutiveNewlines(t *testing.T) {
	source := "x = 1\n\n\n# comment\n\ny = 2\n\n  \n# trailing\n"
	tokens := collectTokens(t, source)
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Type == TokenNewline && tokens[i-1].Type == TokenNewline {
			t.Fatalf("consecutive NEWLINE tokens at %d in %v", i, tokens)
		}
	}
}

func TestLexerBlankLineTransparency(t *testing.T) {
	plain := "x = 1\ny = 2\n"
	noisy := "\n\n# leading comment\nx = 1\n\n   # indented comment\n\ny = 2\n# trailing\n"

	if diff := cmp.Diff(collectTokens(t, plain), collectTokens(t, noisy)); diff != "" {
		t.Fatalf("blank/comment lines changed the token stream (-plain +noisy):\n%s", diff)
	}
}

func TestLexerCommentAfterCode(t *testing.T) {
	got := collectTokens(t, "x = 1 # set x\ny = 2\n")
	want := []Token{
		tok(TokenID, "x"), tok(TokenChar, "="), tok(TokenNumber, "1"), tok(TokenNewline, ""),
		tok(TokenID, "y"), tok(TokenChar, "="), tok(TokenNumber, "2"), tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerOddIndentFails(t *testing.T) {
	lx, err := NewLexer("if x:\n   y = 1\n")
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	for {
		if _, err = lx.NextToken(); err != nil {
			break
		}
		if lx.CurrentToken().Type == TokenEOF {
			t.Fatalf("expected odd-indent error, reached EOF")
		}
	}
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if !strings.Contains(lexErr.Msg, "indent size must be even") {
		t.Fatalf("unexpected message %q", lexErr.Msg)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`'hello'`, "hello"},
		{`"hello"`, "hello"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'line\nbreak'`, "line\nbreak"},
		{`'tab\there'`, "tab\there"},
		{`'back\\slash'`, `back\\slash`},
		{`'odd\qescape'`, `odd\qescape`},
		{`'mixed "quotes"'`, `mixed "quotes"`},
		{`"mixed 'quotes'"`, `mixed 'quotes'`},
		{`''`, ""},
	}
	for _, tc := range tests {
		tokens := collectTokens(t, tc.source+"\n")
		if tokens[0].Type != TokenString {
			t.Errorf("%s: expected STRING, got %s", tc.source, tokens[0])
			continue
		}
		if tokens[0].Literal != tc.want {
			t.Errorf("%s: got %q, want %q", tc.source, tokens[0].Literal, tc.want)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	for _, source := range []string{`'oops`, `"oops`, `'oops\`} {
		if _, err := NewLexer(source); err == nil {
			t.Errorf("%q: expected error", source)
		}
	}
}

func TestLexerEOFSynthesizesNewline(t *testing.T) {
	got := collectTokens(t, "x = 1")
	want := []Token{
		tok(TokenID, "x"),
		tok(TokenChar, "="),
		tok(TokenNumber, "1"),
		tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerEmptyInput(t *testing.T) {
	for _, source := range []string{"", "\n\n", "# only a comment", "   \n  # comment\n"} {
		got := collectTokens(t, source)
		want := []Token{tok(TokenEOF, "")}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("source %q (-want +got):\n%s", source, diff)
		}
	}
}

func TestLexerEOFAfterDedent(t *testing.T) {
	got := collectTokens(t, "if x:\n  y = 1\n")
	want := []Token{
		tok(TokenIf, ""), tok(TokenID, "x"), tok(TokenChar, ":"), tok(TokenNewline, ""),
		tok(TokenIndent, ""),
		tok(TokenID, "y"), tok(TokenChar, "="), tok(TokenNumber, "1"), tok(TokenNewline, ""),
		tok(TokenDedent, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lx, err := NewLexer("x")
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := lx.NextToken(); err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
	}
	if lx.CurrentToken().Type != TokenEOF {
		t.Fatalf("expected sticky EOF, got %s", lx.CurrentToken())
	}
}

func TestLexerCurrentTokenAfterConstruction(t *testing.T) {
	lx, err := NewLexer("print 7\n")
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}
	if lx.CurrentToken().Type != TokenPrint {
		t.Fatalf("expected PRINT as first token, got %s", lx.CurrentToken())
	}
}

func TestLexerExpectHelpers(t *testing.T) {
	lx, err := NewLexer("x = 1\n")
	if err != nil {
		t.Fatalf("NewLexer failed: %v", err)
	}

	if _, err := lx.Expect(TokenID); err != nil {
		t.Fatalf("Expect(IDENT) failed: %v", err)
	}
	if err := lx.ExpectLiteral(TokenID, "x"); err != nil {
		t.Fatalf("ExpectLiteral failed: %v", err)
	}
	if _, err := lx.Expect(TokenNumber); err == nil {
		t.Fatal("Expect(NUMBER) should fail on IDENT")
	}

	if err := lx.ExpectNextLiteral(TokenChar, "="); err != nil {
		t.Fatalf("ExpectNextLiteral failed: %v", err)
	}
	if _, err := lx.ExpectNext(TokenNumber); err != nil {
		t.Fatalf("ExpectNext(NUMBER) failed: %v", err)
	}
	if _, err := lx.ExpectNext(TokenNewline); err != nil {
		t.Fatalf("ExpectNext(NEWLINE) failed: %v", err)
	}
}

func TestLexerCharFallback(t *testing.T) {
	got := collectTokens(t, "(),.:+-*/\n")
	want := []Token{
		tok(TokenChar, "("), tok(TokenChar, ")"), tok(TokenChar, ","),
		tok(TokenChar, "."), tok(TokenChar, ":"), tok(TokenChar, "+"),
		tok(TokenChar, "-"), tok(TokenChar, "*"), tok(TokenChar, "/"),
		tok(TokenNewline, ""), tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerClassProgram(t *testing.T) {
	source := "" +
		"class Greeter:\n" +
		"  def hi():\n" +
		"    return 'Hi'\n" +
		"g = Greeter()\n"

	got := collectTokens(t, source)
	want := []Token{
		tok(TokenClass, ""), tok(TokenID, "Greeter"), tok(TokenChar, ":"), tok(TokenNewline, ""),
		tok(TokenIndent, ""),
		tok(TokenDef, ""), tok(TokenID, "hi"), tok(TokenChar, "("), tok(TokenChar, ")"),
		tok(TokenChar, ":"), tok(TokenNewline, ""),
		tok(TokenIndent, ""),
		tok(TokenReturn, ""), tok(TokenString, "Hi"), tok(TokenNewline, ""),
		tok(TokenDedent, ""),
		tok(TokenDedent, ""),
		tok(TokenID, "g"), tok(TokenChar, "="), tok(TokenID, "Greeter"),
		tok(TokenChar, "("), tok(TokenChar, ")"), tok(TokenNewline, ""),
		tok(TokenEOF, ""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}
