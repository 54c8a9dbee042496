package tokenizer

// Method is one of the request methods the server accepts.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGet
	MethodPost
	MethodPut
	MethodDelete
)

// The compiler turns methods[string(b)] into a lookup without allocating the
// temporary string, so classification is zero-alloc.
var methods = map[string]Method{
	"GET":    MethodGet,
	"POST":   MethodPost,
	"PUT":    MethodPut,
	"DELETE": MethodDelete,
}

var methodNames = [...]string{
	MethodUnknown: "",
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
}

// ParseMethod classifies a method token. Matching is exact and case-sensitive.
func ParseMethod(b []byte) (Method, error) {
	if m, ok := methods[string(b)]; ok {
		return m, nil
	}
	return MethodUnknown, errorf(ErrInvalidMethod, "%q", b)
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return ""
}
