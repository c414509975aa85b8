// Package output classifies matches by status range and writes them as
// console lines or JSON records.
package output

// StatusClass is the printable bucket of an HTTP status code.
type StatusClass int

const (
	ClassUnknown StatusClass = iota
	Class1xx
	Class2xx
	Class3xx
	Class4xx
	Class5xx
)

// Classify buckets code into [100,200), [200,300), [300,400), [400,500)
// or [500,600). Anything else is ClassUnknown.
func Classify(code int) StatusClass {
	switch {
	case code >= 100 && code < 200:
		return Class1xx
	case code >= 200 && code < 300:
		return Class2xx
	case code >= 300 && code < 400:
		return Class3xx
	case code >= 400 && code < 500:
		return Class4xx
	case code >= 500 && code < 600:
		return Class5xx
	default:
		return ClassUnknown
	}
}

func (c StatusClass) String() string {
	switch c {
	case Class1xx:
		return "1xx"
	case Class2xx:
		return "2xx"
	case Class3xx:
		return "3xx"
	case Class4xx:
		return "4xx"
	case Class5xx:
		return "5xx"
	default:
		return "unknown"
	}
}
