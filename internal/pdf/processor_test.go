package pdf_test

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/internal/pdftest"
	"github.com/kpauljoseph/labelsplit/pkg/logger"
)

func processorTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[pdf-test] "),
		logger.WithTimestamp(false),
	)
	log.SetVerbose(true)
	log.SetLevel(logger.LevelTrace)
	return log
}

// fakeRasterizer serves prepared bitmaps. Later pages finish first so the
// pool completes out of order.
type fakeRasterizer struct {
	pages    []*image.RGBA
	failAt   int
	rendered atomic.Int32
	closed   atomic.Bool
}

func newFakeRasterizer(pages ...*image.RGBA) *fakeRasterizer {
	return &fakeRasterizer{pages: pages, failAt: -1}
}

func (f *fakeRasterizer) PageCount() int { return len(f.pages) }

func (f *fakeRasterizer) Rasterize(ctx context.Context, index int) (*image.RGBA, error) {
	time.Sleep(time.Duration(len(f.pages)-index) * 2 * time.Millisecond)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index == f.failAt {
		return nil, &pdf.DecodeError{Page: index, Err: errors.New("broken page")}
	}
	f.rendered.Add(1)
	return f.pages[index], nil
}

func (f *fakeRasterizer) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeRasterizer) opener() pdf.OpenFunc {
	return func(data []byte) (pdf.Rasterizer, error) { return f, nil }
}

func labelPages(n int) []*image.RGBA {
	pages := make([]*image.RGBA, n)
	for i := range pages {
		pages[i] = pdftest.LabelBitmap(i, 60, 80)
	}
	return pages
}

var _ = Describe("PDF Processor", func() {
	var (
		outputDir  string
		previewDir string
		testLogger *logger.Logger
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		outputDir, err = os.MkdirTemp("", "labelsplit-output-*")
		Expect(err).NotTo(HaveOccurred())
		previewDir = filepath.Join(outputDir, "previews")

		testLogger = processorTestLogger()
		testLogger.Debug("Output directory: %s", outputDir)
		ctx = context.Background()
	})

	AfterEach(func() {
		err := os.RemoveAll(outputDir)
		Expect(err).NotTo(HaveOccurred())
	})

	newProcessor := func(fake *fakeRasterizer, opts ...pdf.ProcessorOption) *pdf.Processor {
		opts = append([]pdf.ProcessorOption{pdf.WithOpener(fake.opener()), pdf.WithWorkers(4)}, opts...)
		processor, err := pdf.NewProcessor(outputDir, testLogger, opts...)
		Expect(err).NotTo(HaveOccurred())
		return processor
	}

	Context("Worker configuration", func() {
		It("should fall back to one worker per CPU", func() {
			processor, err := pdf.NewProcessor(outputDir, testLogger, pdf.WithWorkers(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(processor.Workers()).To(BeNumerically(">=", 1))
		})

		It("should create nested output and preview directories", func() {
			nested := filepath.Join(outputDir, "nested", "output")
			_, err := pdf.NewProcessor(nested, testLogger, pdf.WithPreviewDir(previewDir))
			Expect(err).NotTo(HaveOccurred())
			Expect(nested).To(BeADirectory())
			Expect(previewDir).To(BeADirectory())
		})
	})

	Context("Converting a document", func() {
		It("should produce two pages per source page", func() {
			fake := newFakeRasterizer(labelPages(3)...)
			result, err := newProcessor(fake).Convert(ctx, []byte("%PDF-fake"))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.SourcePages).To(Equal(3))
			Expect(result.OutputPages()).To(Equal(6))
			Expect(result.Hash).To(HaveLen(64))
			Expect(fake.closed.Load()).To(BeTrue())

			path := filepath.Join(outputDir, "out.pdf")
			Expect(os.WriteFile(path, result.PDF, 0644)).To(Succeed())
			count, err := api.PageCountFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(6))
		})

		It("should keep source order even when later pages finish first", func() {
			fake := newFakeRasterizer(labelPages(3)...)
			result, err := newProcessor(fake).Convert(ctx, []byte("%PDF-fake"))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Previews).To(HaveLen(6))
			for i, preview := range result.Previews {
				Expect(preview.OutputPage).To(Equal(i))

				expected := pdftest.TopColor(i / 2)
				if i%2 == 1 {
					expected = pdftest.BottomColor(i / 2)
				}
				b := preview.Image.Bounds()
				centre := preview.Image.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2)
				Expect(pdftest.Close(centre, expected, 24)).To(BeTrue(), "output page %d", i)
			}
			Expect(result.PreviewTruncated).To(BeFalse())
		})

		It("should cap the previews", func() {
			fake := newFakeRasterizer(labelPages(4)...)
			result, err := newProcessor(fake).Convert(ctx, []byte("%PDF-fake"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Previews).To(HaveLen(pdf.PreviewCap))
			Expect(result.PreviewTruncated).To(BeTrue())
		})

		It("should produce identical output for identical input", func() {
			a, err := newProcessor(newFakeRasterizer(labelPages(2)...)).Convert(ctx, []byte("%PDF-fake"))
			Expect(err).NotTo(HaveOccurred())
			for run := 0; run < 10; run++ {
				b, err := newProcessor(newFakeRasterizer(labelPages(2)...)).Convert(ctx, []byte("%PDF-fake"))
				Expect(err).NotTo(HaveOccurred())
				Expect(b.PDF).To(Equal(a.PDF), "run %d differs", run)
			}
		})

		It("should work with a single worker", func() {
			fake := newFakeRasterizer(labelPages(2)...)
			result, err := newProcessor(fake, pdf.WithWorkers(1)).Convert(ctx, []byte("%PDF-fake"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.OutputPages()).To(Equal(4))
		})
	})

	Context("Failures", func() {
		It("should abort on a page too short to split", func() {
			pages := labelPages(3)
			pages[1] = pdftest.LabelBitmap(1, 60, 1)
			result, err := newProcessor(newFakeRasterizer(pages...)).Convert(ctx, []byte("%PDF-fake"))

			Expect(result).To(BeNil())
			var geomErr *pdf.InvalidGeometryError
			Expect(errors.As(err, &geomErr)).To(BeTrue())
			Expect(geomErr.Page).To(Equal(1))
		})

		It("should abort when a page cannot be decoded", func() {
			fake := newFakeRasterizer(labelPages(3)...)
			fake.failAt = 2
			result, err := newProcessor(fake).Convert(ctx, []byte("%PDF-fake"))

			Expect(result).To(BeNil())
			var decErr *pdf.DecodeError
			Expect(errors.As(err, &decErr)).To(BeTrue())
			Expect(decErr.Page).To(Equal(2))
		})

		It("should surface errors from opening the document", func() {
			processor, err := pdf.NewProcessor(outputDir, testLogger, pdf.WithOpener(func([]byte) (pdf.Rasterizer, error) {
				return nil, &pdf.DecodeError{Page: pdf.NoPage, Err: pdf.ErrNotPDF}
			}))
			Expect(err).NotTo(HaveOccurred())

			_, err = processor.Convert(ctx, []byte("hello"))
			Expect(errors.Is(err, pdf.ErrNotPDF)).To(BeTrue())
		})

		It("should stop when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			fake := newFakeRasterizer(labelPages(3)...)
			result, err := newProcessor(fake).Convert(cancelled, []byte("%PDF-fake"))
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(context.Canceled))
			Expect(fake.rendered.Load()).To(BeZero())
		})
	})

	Context("Processing a file", func() {
		It("should write the split document and its previews", func() {
			source := filepath.Join(outputDir, "labels.pdf")
			Expect(os.WriteFile(source, []byte("%PDF-fake"), 0644)).To(Succeed())

			fake := newFakeRasterizer(labelPages(1)...)
			processor := newProcessor(fake, pdf.WithPreviewDir(previewDir))

			stats, err := processor.ProcessPDF(ctx, source)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.SourcePages).To(Equal(1))
			Expect(stats.OutputPages).To(Equal(2))
			Expect(stats.OutputPath).To(Equal(filepath.Join(outputDir, "labels_split.pdf")))
			Expect(stats.OutputPath).To(BeAnExistingFile())
			Expect(stats.PreviewPaths).To(ConsistOf(
				filepath.Join(previewDir, "labels_split_preview1.jpg"),
				filepath.Join(previewDir, "labels_split_preview2.jpg"),
			))
			for _, p := range stats.PreviewPaths {
				Expect(p).To(BeAnExistingFile())
			}
		})

		It("should not write anything when conversion fails", func() {
			source := filepath.Join(outputDir, "broken.pdf")
			Expect(os.WriteFile(source, []byte("%PDF-fake"), 0644)).To(Succeed())

			fake := newFakeRasterizer(labelPages(2)...)
			fake.failAt = 0
			_, err := newProcessor(fake).ProcessPDF(ctx, source)
			Expect(err).To(HaveOccurred())
			Expect(filepath.Join(outputDir, "broken_split.pdf")).NotTo(BeAnExistingFile())
		})

		It("should keep equally named files from different folders apart", func() {
			inputDir := filepath.Join(outputDir, "input")
			Expect(os.MkdirAll(filepath.Join(inputDir, "nested"), 0755)).To(Succeed())
			for _, rel := range []string{"labels.pdf", filepath.Join("nested", "labels.pdf")} {
				Expect(os.WriteFile(filepath.Join(inputDir, rel), []byte("%PDF-fake"), 0644)).To(Succeed())
			}

			splitDir := filepath.Join(outputDir, "split")
			processor, err := pdf.NewProcessor(splitDir, testLogger,
				pdf.WithOpener(newFakeRasterizer(labelPages(1)...).opener()),
				pdf.WithPreviewDir(previewDir),
			)
			Expect(err).NotTo(HaveOccurred())

			top, err := processor.ProcessRelative(ctx, filepath.Join(inputDir, "labels.pdf"), "labels.pdf")
			Expect(err).NotTo(HaveOccurred())
			nested, err := processor.ProcessRelative(ctx,
				filepath.Join(inputDir, "nested", "labels.pdf"), filepath.Join("nested", "labels.pdf"))
			Expect(err).NotTo(HaveOccurred())

			Expect(top.OutputPath).To(Equal(filepath.Join(splitDir, "labels_split.pdf")))
			Expect(nested.OutputPath).To(Equal(filepath.Join(splitDir, "nested", "labels_split.pdf")))
			Expect(top.OutputPath).To(BeAnExistingFile())
			Expect(nested.OutputPath).To(BeAnExistingFile())

			Expect(nested.PreviewPaths).To(ContainElement(filepath.Join(previewDir, "nested", "labels_split_preview1.jpg")))
			Expect(top.PreviewPaths).NotTo(ContainElements(nested.PreviewPaths))
		})

		DescribeTable("should never write outside the output directory",
			func(relativePath string) {
				source := filepath.Join(outputDir, "escape.pdf")
				Expect(os.WriteFile(source, []byte("%PDF-fake"), 0644)).To(Succeed())

				splitDir := filepath.Join(outputDir, "split")
				processor, err := pdf.NewProcessor(splitDir, testLogger,
					pdf.WithOpener(newFakeRasterizer(labelPages(1)...).opener()))
				Expect(err).NotTo(HaveOccurred())

				stats, err := processor.ProcessRelative(ctx, source, relativePath)
				Expect(err).NotTo(HaveOccurred())
				Expect(stats.OutputPath).To(Equal(filepath.Join(splitDir, "escape_split.pdf")))
			},
			Entry("parent directory", filepath.Join("..", "escape.pdf")),
			Entry("absolute path", filepath.Join(string(filepath.Separator), "tmp", "escape.pdf")),
		)

		It("should report a missing file", func() {
			_, err := newProcessor(newFakeRasterizer()).ProcessPDF(ctx, filepath.Join(outputDir, "missing.pdf"))
			Expect(err).To(HaveOccurred())
		})
	})
})
