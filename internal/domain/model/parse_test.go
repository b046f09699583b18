package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/bfhl/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func parse(body string) (model.Operation, error) {
	return model.Parse(strings.NewReader(body), model.ParseOptions{MaxFibonacciTerms: 100})
}

// shouldFailWith asserts err is a ValidationError of kind with message msg.
func shouldFailWith(err error, kind error, msg string) {
	var verr *model.ValidationError
	So(errors.As(err, &verr), ShouldBeTrue)
	So(errors.Is(err, kind), ShouldBeTrue)
	So(verr.Message, ShouldEqual, msg)
}

func TestParseEnvelope(t *testing.T) {
	Convey("Given request bodies with the wrong outer shape", t, func() {
		Convey("Then malformed JSON is rejected", func() {
			_, err := parse(`{"fibonacci":`)
			shouldFailWith(err, model.ErrMalformed, model.MsgInvalidJSON)
		})

		Convey("Then trailing data after the object is rejected", func() {
			_, err := parse(`{"fibonacci":1} {}`)
			shouldFailWith(err, model.ErrMalformed, model.MsgInvalidJSON)
		})

		Convey("Then an empty body counts as zero keys", func() {
			_, err := parse(``)
			shouldFailWith(err, model.ErrShape, model.MsgExactlyOneKey)
		})

		Convey("Then zero keys are rejected", func() {
			_, err := parse(`{}`)
			shouldFailWith(err, model.ErrShape, model.MsgExactlyOneKey)
		})

		Convey("Then two keys are rejected before the key is inspected", func() {
			_, err := parse(`{"fibonacci":3,"prime":[2]}`)
			shouldFailWith(err, model.ErrShape, model.MsgExactlyOneKey)

			_, err = parse(`{"nope":3,"other":[2]}`)
			shouldFailWith(err, model.ErrShape, model.MsgExactlyOneKey)
		})

		Convey("Then non-object JSON is rejected as a key count error", func() {
			for _, body := range []string{`[1]`, `5`, `"fibonacci"`, `null`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrShape, model.MsgExactlyOneKey)
			}
		})

		Convey("Then an unknown key is rejected", func() {
			_, err := parse(`{"unknown":1}`)
			shouldFailWith(err, model.ErrShape, model.MsgInvalidKey)

			_, err = parse(`{"ai":"hello"}`)
			shouldFailWith(err, model.ErrShape, model.MsgInvalidKey)
		})

		Convey("Then a repeated key collapses to one", func() {
			op, err := parse(`{"fibonacci":1,"fibonacci":4}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.Fibonacci{N: 4})
		})
	})
}

func TestParseFibonacci(t *testing.T) {
	Convey("Given fibonacci requests", t, func() {
		Convey("Then non-negative integers are accepted", func() {
			for body, n := range map[string]int{
				`{"fibonacci":0}`:   0,
				`{"fibonacci":5}`:   5,
				`{"fibonacci":5.0}`: 5,
				`{"fibonacci":1e2}`: 100,
			} {
				op, err := parse(body)
				So(err, ShouldBeNil)
				So(op, ShouldResemble, model.Fibonacci{N: n})
				So(op.Name(), ShouldEqual, model.NameFibonacci)
			}
		})

		Convey("Then other values are rejected", func() {
			for _, body := range []string{
				`{"fibonacci":-1}`,
				`{"fibonacci":1.5}`,
				`{"fibonacci":"5"}`,
				`{"fibonacci":null}`,
				`{"fibonacci":[5]}`,
				`{"fibonacci":true}`,
				`{"fibonacci":101}`,
				`{"fibonacci":1e400}`,
			} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrShape, model.MsgInvalidFibonacci)
			}
		})

		Convey("Then a zero cap disables the limit", func() {
			op, err := model.Parse(strings.NewReader(`{"fibonacci":5000}`), model.ParseOptions{})
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.Fibonacci{N: 5000})
		})
	})
}

func TestParsePrime(t *testing.T) {
	Convey("Given prime requests", t, func() {
		Convey("Then arrays longer than the cap are rejected", func() {
			opts := model.ParseOptions{MaxPrimeElements: 3}
			op, err := model.Parse(strings.NewReader(`{"prime":[2,3,5]}`), opts)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.Prime{Values: []int64{2, 3, 5}})

			_, err = model.Parse(strings.NewReader(`{"prime":[2,3,5,7]}`), opts)
			shouldFailWith(err, model.ErrShape, model.MsgPrimeTooLong)

			_, err = model.Parse(strings.NewReader(`{"prime":[2,3,"x",7]}`), opts)
			shouldFailWith(err, model.ErrShape, model.MsgPrimeNotIntegers)
		})

		Convey("Then integer arrays are accepted", func() {
			op, err := parse(`{"prime":[1,2,3.0,-4,9007199254740993]}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.Prime{Values: []int64{1, 2, 3, -4, 9007199254740993}})
		})

		Convey("Then an empty array is accepted", func() {
			op, err := parse(`{"prime":[]}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.Prime{Values: []int64{}})
		})

		Convey("Then non-arrays are rejected", func() {
			for _, body := range []string{`{"prime":7}`, `{"prime":"2,3"}`, `{"prime":{"a":2}}`, `{"prime":null}`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrShape, model.MsgPrimeNotArray)
			}
		})

		Convey("Then arrays with non-integers are rejected", func() {
			for _, body := range []string{`{"prime":[2,3.5]}`, `{"prime":[2,"3"]}`, `{"prime":[null]}`, `{"prime":[[2]]}`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrShape, model.MsgPrimeNotIntegers)
			}
		})
	})
}

func TestParseLCMAndHCF(t *testing.T) {
	Convey("Given lcm and hcf requests", t, func() {
		Convey("Then non-empty integer arrays are accepted", func() {
			op, err := parse(`{"lcm":[4,6]}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.LCM{Values: []int64{4, 6}})

			op, err = parse(`{"hcf":[12,18]}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.HCF{Values: []int64{12, 18}})
		})

		Convey("Then shape violations are argument errors", func() {
			for _, body := range []string{`{"lcm":[]}`, `{"lcm":4}`, `{"lcm":[4,"6"]}`, `{"lcm":[1.5]}`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrArgument, model.MsgLCMNonEmptyArray)
			}
			for _, body := range []string{`{"hcf":[]}`, `{"hcf":null}`, `{"hcf":[true]}`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrArgument, model.MsgHCFNonEmptyArray)
			}
		})
	})
}

func TestValidationErrorOp(t *testing.T) {
	Convey("Given failures before and after the key is recognised", t, func() {
		var verr *model.ValidationError

		_, err := parse(`{"a":1,"b":2}`)
		So(errors.As(err, &verr), ShouldBeTrue)
		So(verr.Op, ShouldEqual, model.Name(""))

		_, err = parse(`{"Fibonacci":1}`)
		So(errors.As(err, &verr), ShouldBeTrue)
		So(verr.Op, ShouldEqual, model.Name(""))

		_, err = parse(`{"hcf":[]}`)
		So(errors.As(err, &verr), ShouldBeTrue)
		So(verr.Op, ShouldEqual, model.NameHCF)
	})
}

func TestParseAI(t *testing.T) {
	Convey("Given AI requests", t, func() {
		Convey("Then strings are accepted, including empty ones", func() {
			op, err := parse(`{"AI":"What is the capital of France?"}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.AI{Prompt: "What is the capital of France?"})

			op, err = parse(`{"AI":""}`)
			So(err, ShouldBeNil)
			So(op, ShouldResemble, model.AI{Prompt: ""})
		})

		Convey("Then non-strings are argument errors", func() {
			for _, body := range []string{`{"AI":1}`, `{"AI":["hi"]}`, `{"AI":null}`} {
				_, err := parse(body)
				shouldFailWith(err, model.ErrArgument, model.MsgAIExpectsString)
			}
		})
	})
}
