package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/bfhl/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func render(e types.Envelope) map[string]any {
	raw, err := json.Marshal(e)
	So(err, ShouldBeNil)
	var out map[string]any
	So(json.Unmarshal(raw, &out), ShouldBeNil)
	return out
}

func TestEnvelope(t *testing.T) {
	Convey("Given the envelope constructors", t, func() {
		const email = "someone@example.com"

		Convey("When a success carries data", func() {
			out := render(types.Success(email, []int{2, 3}))

			Convey("Then data is present and message absent", func() {
				So(out["is_success"], ShouldEqual, true)
				So(out["official_email"], ShouldEqual, email)
				So(out["data"], ShouldResemble, []any{float64(2), float64(3)})
				So(out, ShouldNotContainKey, "message")
			})
		})

		Convey("When a success carries an empty sequence", func() {
			out := render(types.Success(email, []int{}))

			Convey("Then data is rendered as an empty array", func() {
				So(out, ShouldContainKey, "data")
				So(out["data"], ShouldResemble, []any{})
			})
		})

		Convey("When the health status is rendered", func() {
			out := render(types.Status(email))

			Convey("Then only the flag and email are present", func() {
				So(out, ShouldResemble, map[string]any{"is_success": true, "official_email": email})
			})
		})

		Convey("When a failure is rendered", func() {
			out := render(types.Failure(email, "Invalid key"))

			Convey("Then message is present and data absent", func() {
				So(out["is_success"], ShouldEqual, false)
				So(out["message"], ShouldEqual, "Invalid key")
				So(out, ShouldNotContainKey, "data")
			})
		})
	})
}
