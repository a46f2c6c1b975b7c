package pdf_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/internal/pdftest"
)

var _ = Describe("MuPDF Rasterizer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should render pages at 300 DPI", func() {
		data, err := pdftest.LabelPDF(2, pdftest.LabelPageWidth, pdftest.LabelPageHeight)
		Expect(err).NotTo(HaveOccurred())

		doc, err := pdf.OpenFitz(data)
		Expect(err).NotTo(HaveOccurred())
		defer doc.Close()

		Expect(doc.PageCount()).To(Equal(2))

		img, err := doc.Rasterize(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(600))
		Expect(img.Bounds().Dy()).To(Equal(800))

		Expect(pdftest.Close(img.At(300, 200), pdftest.TopColor(1), 8)).To(BeTrue())
		Expect(pdftest.Close(img.At(300, 600), pdftest.BottomColor(1), 8)).To(BeTrue())
	})

	DescribeTable("page index out of range",
		func(index int) {
			data, err := pdftest.LabelPDF(1, pdftest.LabelPageWidth, pdftest.LabelPageHeight)
			Expect(err).NotTo(HaveOccurred())
			doc, err := pdf.OpenFitz(data)
			Expect(err).NotTo(HaveOccurred())
			defer doc.Close()

			_, err = doc.Rasterize(ctx, index)
			var decErr *pdf.DecodeError
			Expect(errors.As(err, &decErr)).To(BeTrue())
			Expect(decErr.Page).To(Equal(index))
		},
		Entry("negative", -1),
		Entry("past the end", 1),
	)

	DescribeTable("unreadable input",
		func(data []byte, notPDF bool) {
			doc, err := pdf.OpenFitz(data)
			Expect(doc).To(BeNil())

			var decErr *pdf.DecodeError
			Expect(errors.As(err, &decErr)).To(BeTrue())
			Expect(decErr.Page).To(Equal(pdf.NoPage))
			Expect(errors.Is(err, pdf.ErrNotPDF)).To(Equal(notPDF))
		},
		Entry("empty", []byte{}, true),
		Entry("plain text", []byte("shipping labels"), true),
		Entry("png header", []byte("\x89PNG\r\n\x1a\n0000000000000"), true),
		Entry("truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<<"), false),
	)

	It("should not render after the context is cancelled", func() {
		data, err := pdftest.LabelPDF(1, pdftest.LabelPageWidth, pdftest.LabelPageHeight)
		Expect(err).NotTo(HaveOccurred())
		doc, err := pdf.OpenFitz(data)
		Expect(err).NotTo(HaveOccurred())
		defer doc.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = doc.Rasterize(cancelled, 0)
		Expect(err).To(MatchError(context.Canceled))
	})
})
