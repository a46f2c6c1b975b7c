package pdf

import "fmt"

// NoPage marks errors that concern the whole document rather than one page.
const NoPage = -1

// DecodeError means the source document or one of its pages could not be read.
type DecodeError struct {
	Page int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Page == NoPage {
		return fmt.Sprintf("decode document: %v", e.Err)
	}
	return fmt.Sprintf("decode page %d: %v", e.Page, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InvalidGeometryError means a rasterised page is too short to be split in two.
type InvalidGeometryError struct {
	Page   int
	Height int
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("page %d: raster height %d is too small to split", e.Page, e.Height)
}

// EncodeError covers image encoding and output document serialisation.
type EncodeError struct {
	Stage string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Stage, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
