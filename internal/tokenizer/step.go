package tokenizer

import (
	"fmt"

	"github.com/shapestone/shape-httpd/internal/span"
)

// Stage is the position of the tokenizer within a request.
type Stage uint8

const (
	StageMethod Stage = iota
	StagePath
	StageVersion
	StageHeader
	StageBody
	StageDone
)

var stageNames = [...]string{
	StageMethod:  "method",
	StagePath:    "path",
	StageVersion: "version",
	StageHeader:  "header",
	StageBody:    "body",
	StageDone:    "done",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// State is the tagged state of the transition function.
type State struct {
	Stage Stage
	// Remaining is the number of body bytes still expected. A negative value
	// means the body runs until end of stream.
	Remaining int64
}

// Transition is the outcome of one Step.
type Transition struct {
	Next     State
	Node     Node // valid when Emit is true; Value aliases the input
	Emit     bool
	Consumed int
}

// Step advances the tokenizer by at most one token.
//
// It returns ErrNeedMore when in does not hold a complete token; Consumed may
// still be non-zero in that case (skipped filler). eof reports that no more
// input will arrive. Step never retains in.
func Step(s State, in []byte, eof bool) (Transition, error) {
	switch s.Stage {
	case StageMethod:
		return stepMethod(s, in)
	case StagePath:
		return stepPath(s, in)
	case StageVersion:
		return stepVersion(s, in, eof)
	case StageHeader:
		return stepHeader(s, in, eof)
	case StageBody:
		return stepBody(s, in, eof)
	case StageDone:
		return Transition{Next: s}, nil
	}
	return Transition{Next: s}, fmt.Errorf("tokenizer: unknown stage %d", s.Stage)
}

func isDelimiter(b byte) bool {
	return b == ' ' || b == '\r' || b == '\n'
}

// skipFiller drops spaces and stray line terminators that may precede a
// request line (RFC 7230 section 3.5).
func skipFiller(in []byte) []byte {
	for {
		rest := span.SkipWhileNewline(span.SkipWhileWhitespace(in))
		if len(rest) == len(in) {
			return rest
		}
		in = rest
	}
}

func stepMethod(s State, in []byte) (Transition, error) {
	rest := skipFiller(in)
	skipped := len(in) - len(rest)
	need := Transition{Next: s, Consumed: skipped}
	if len(rest) == 0 {
		return need, ErrNeedMore
	}

	after, token := span.ConsumeTill(rest, isDelimiter)
	if len(after) == 0 {
		return need, ErrNeedMore
	}
	if _, err := ParseMethod(token); err != nil {
		return need, err
	}

	return Transition{
		Next:     State{Stage: StagePath},
		Node:     NewNode(KindMethod, token),
		Emit:     true,
		Consumed: skipped + len(token),
	}, nil
}

func stepPath(s State, in []byte) (Transition, error) {
	rest := span.SkipWhileWhitespace(in)
	skipped := len(in) - len(rest)
	need := Transition{Next: s, Consumed: skipped}
	if len(rest) == 0 {
		return need, ErrNeedMore
	}
	if span.IsNewline(rest) {
		return need, errorf(ErrIncompleteRequest, "request line ends after method")
	}

	after, token := span.ConsumeTill(rest, isDelimiter)
	if len(after) == 0 {
		return need, ErrNeedMore
	}
	if _, err := ParsePath(string(token)); err != nil {
		return need, err
	}

	return Transition{
		Next:     State{Stage: StageVersion},
		Node:     NewNode(KindPath, token),
		Emit:     true,
		Consumed: skipped + len(token),
	}, nil
}

func stepVersion(s State, in []byte, eof bool) (Transition, error) {
	rest := span.SkipWhileWhitespace(in)
	skipped := len(in) - len(rest)
	need := Transition{Next: s, Consumed: skipped}
	if len(rest) == 0 {
		return need, ErrNeedMore
	}
	if span.IsNewline(rest) {
		return need, errorf(ErrIncompleteRequest, "request line ends after path")
	}

	after, token := span.ConsumeTillNewline(rest)
	n, complete := span.NewlineLen(after, eof)
	if len(after) == 0 || !complete {
		return need, ErrNeedMore
	}

	return Transition{
		Next:     State{Stage: StageHeader},
		Node:     NewNode(KindVersion, token),
		Emit:     true,
		Consumed: skipped + len(token) + n,
	}, nil
}

func stepHeader(s State, in []byte, eof bool) (Transition, error) {
	after, line := span.ConsumeTillNewline(in)
	n, complete := span.NewlineLen(after, eof)
	if len(after) == 0 || !complete {
		return Transition{Next: s}, ErrNeedMore
	}

	if len(line) == 0 {
		return Transition{
			Next:     State{Stage: StageBody, Remaining: -1},
			Consumed: n,
		}, nil
	}

	if _, _, err := SplitHeader(line); err != nil {
		return Transition{Next: s}, err
	}
	return Transition{
		Next:     s,
		Node:     NewNode(KindHeader, line),
		Emit:     true,
		Consumed: len(line) + n,
	}, nil
}

func stepBody(s State, in []byte, eof bool) (Transition, error) {
	if s.Remaining == 0 {
		return Transition{Next: State{Stage: StageDone}}, nil
	}

	if s.Remaining < 0 {
		if len(in) > 0 {
			return Transition{Next: s, Node: NewNode(KindBody, in), Emit: true, Consumed: len(in)}, nil
		}
		if eof {
			return Transition{Next: State{Stage: StageDone}}, nil
		}
		return Transition{Next: s}, ErrNeedMore
	}

	if len(in) == 0 {
		return Transition{Next: s}, ErrNeedMore
	}
	n := int64(len(in))
	if n > s.Remaining {
		n = s.Remaining
	}
	next := State{Stage: StageBody, Remaining: s.Remaining - n}
	if next.Remaining == 0 {
		next = State{Stage: StageDone}
	}
	return Transition{Next: next, Node: NewNode(KindBody, in[:n]), Emit: true, Consumed: int(n)}, nil
}

// SplitHeader splits a header line at the first ':' and drops the spaces that
// lead the value.
func SplitHeader(line []byte) (key, value []byte, err error) {
	rest, key := span.ConsumeTill(line, func(b byte) bool { return b == ':' })
	if len(rest) == 0 {
		return nil, nil, errorf(ErrInvalidHeader, "missing colon in %q", line)
	}
	if len(key) == 0 {
		return nil, nil, errorf(ErrInvalidHeader, "empty header name")
	}
	return key, span.SkipWhileWhitespace(rest[1:]), nil
}
