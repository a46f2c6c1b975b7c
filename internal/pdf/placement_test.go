package pdf_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
)

var _ = Describe("Placement", func() {
	Context("for the rotated half of a 600x800 px page", func() {
		It("should fill the A5 width and bleed evenly", func() {
			p := pdf.ComputePlacement(400, 600, pdf.A5, pdf.RasterDPI)

			Expect(p.PageWidth).To(Equal(420.0))
			Expect(p.PageHeight).To(Equal(595.0))
			Expect(p.TargetWidthPx).To(Equal(1750))
			Expect(p.TargetHeightPx).To(Equal(2625))
			Expect(p.DisplayHeight).To(BeNumerically("~", 630.0, 1e-9))
			Expect(p.YOffset).To(BeNumerically("~", -17.5, 1e-9))
			Expect(p.Overflows()).To(BeTrue())
		})
	})

	Context("for a landscape half", func() {
		It("should centre it with equal margins", func() {
			p := pdf.ComputePlacement(600, 400, pdf.A5, pdf.RasterDPI)

			Expect(p.TargetHeightPx).To(Equal(1167))
			Expect(p.DisplayHeight).To(BeNumerically("~", 280.08, 1e-9))
			Expect(p.YOffset).To(BeNumerically("~", 157.46, 1e-9))
			Expect(p.Overflows()).To(BeFalse())
		})
	})

	DescribeTable("invariants",
		func(w, h int) {
			p := pdf.ComputePlacement(w, h, pdf.A5, pdf.RasterDPI)

			By("preserving the aspect ratio")
			Expect(p.DisplayHeight / p.PageWidth).To(BeNumerically("~", float64(h)/float64(w), 1e-3))

			By("keeping the centre of the image on the centre of the page")
			Expect(p.YOffset + p.DisplayHeight/2).To(BeNumerically("~", p.PageHeight/2, 1e-9))

			By("never exceeding the page width")
			Expect(float64(p.TargetWidthPx) / pdf.RasterDPI * pdf.PointsPerInch).To(BeNumerically("~", p.PageWidth, 1e-9))
		},
		Entry("half of a 4x6in label sheet", 1800, 1200),
		Entry("half of a letter page", 1650, 2550),
		Entry("square", 1000, 1000),
		Entry("very wide", 3000, 10),
		Entry("very tall", 10, 3000),
		Entry("odd sizes", 1237, 1751),
		Entry("single pixel", 1, 1),
	)
})
