package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/c4hscore/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRider_EANumber(t *testing.T) {
	convey.Convey("Given a rider", t, func() {
		r := &model.Rider{Surname: "Gravity", GivenName: "Andi"}

		convey.Convey("Then the EA number starts unrecorded", func() {
			convey.So(r.EANumber(), convey.ShouldEqual, "")
		})

		for _, n := range []string{"1234567", "0000000", "9876543"} {
			convey.Convey("When setting valid number "+n, func() {
				err := r.SetEANumber(n)

				convey.Convey("Then it reads back unchanged", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(r.EANumber(), convey.ShouldEqual, n)
				})
			})
		}

		for _, n := range []string{"", "123456", "12345678", "I234567", "12345 7", "١٢٣٤٥٦٧", "-123456"} {
			convey.Convey("When setting invalid number "+n, func() {
				convey.So(r.SetEANumber("7654321"), convey.ShouldBeNil)
				err := r.SetEANumber(n)

				convey.Convey("Then it fails and keeps the previous value", func() {
					convey.So(errors.Is(err, model.ErrInvalidFormat), convey.ShouldBeTrue)
					convey.So(r.EANumber(), convey.ShouldEqual, "7654321")
				})
			})
		}
	})
}

func TestHorse_EANumber(t *testing.T) {
	convey.Convey("Given a horse", t, func() {
		h := &model.Horse{Name: "Topless"}

		convey.Convey("When setting an 8 digit number", func() {
			convey.So(h.SetEANumber("12345678"), convey.ShouldBeNil)

			convey.Convey("Then it reads back unchanged", func() {
				convey.So(h.EANumber(), convey.ShouldEqual, "12345678")
			})

			convey.Convey("Then a rider-length number is rejected", func() {
				err := h.SetEANumber("1234567")
				convey.So(errors.Is(err, model.ErrInvalidFormat), convey.ShouldBeTrue)
				convey.So(h.EANumber(), convey.ShouldEqual, "12345678")
			})

			convey.Convey("Then non-digits are rejected", func() {
				err := h.SetEANumber("I2345678")
				convey.So(errors.Is(err, model.ErrInvalidFormat), convey.ShouldBeTrue)
				convey.So(h.EANumber(), convey.ShouldEqual, "12345678")
			})
		})

		convey.Convey("When setting a 9 digit number", func() {
			err := h.SetEANumber("123456789")

			convey.Convey("Then it fails and stays unrecorded", func() {
				convey.So(errors.Is(err, model.ErrInvalidFormat), convey.ShouldBeTrue)
				convey.So(h.EANumber(), convey.ShouldEqual, "")
			})
		})
	})
}

func TestRider_FullName(t *testing.T) {
	convey.Convey("Given riders with partial names", t, func() {
		convey.So((&model.Rider{Surname: "Gravity"}).FullName(), convey.ShouldEqual, "Gravity")
		convey.So((&model.Rider{GivenName: "Andi"}).FullName(), convey.ShouldEqual, "Andi")
		convey.So((&model.Rider{}).FullName(), convey.ShouldEqual, "")
	})
}
