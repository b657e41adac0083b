package frame

import (
	"errors"
	"fmt"

	"github.com/coreflac/flac/internal/bits"
)

// A SubFrame contains the decoded audio data of a channel.
type SubFrame struct {
	// Header specifies the attributes of the subframe, like prediction
	// method and order, residual coding parameters, etc.
	Header *SubHeader
	// Samples contains the decoded audio samples of the channel, in natural
	// order (i.e. not yet interleaved with the samples of other channels).
	Samples []Sample
}

// A Sample is an audio sample. The size of each sample is between 4 and 32
// bits.
type Sample int32

// NewSubFrame parses and returns a new subframe, which consists of a
// subframe header and encoded audio samples. bps is the bits-per-sample of
// the subframe's channel, prior to any wasted-bits-per-sample adjustment.
//
// Subframe format (pseudo code):
//
//	type SUBFRAME struct {
//	   header      SUBFRAME_HEADER
//	   enc_samples SUBFRAME_CONSTANT || SUBFRAME_FIXED || SUBFRAME_LPC ||
//	               SUBFRAME_VERBATIM
//	}
//
// ref: https://www.xiph.org/flac/format.html#subframe
func (h *Header) NewSubFrame(br *bits.Reader, bps uint) (subframe *SubFrame, err error) {
	// Parse subframe header.
	subframe = new(SubFrame)
	subframe.Header, err = h.NewSubHeader(br)
	if err != nil {
		return nil, err
	}

	// The wasted bits-per-sample are dropped from the source samples before
	// encoding; bps must be adjusted to match before decoding.
	sh := subframe.Header
	bps -= uint(sh.WastedBitCount)

	switch sh.PredMethod {
	case PredConstant:
		subframe.Samples, err = h.DecodeConstant(br, bps)
	case PredFixed:
		subframe.Samples, err = h.DecodeFixed(br, int(sh.PredOrder), bps)
	case PredLPC:
		subframe.Samples, err = h.DecodeLPC(br, int(sh.PredOrder), bps)
	case PredVerbatim:
		subframe.Samples, err = h.DecodeVerbatim(br, bps)
	default:
		return nil, fmt.Errorf("frame.Header.NewSubFrame: unknown subframe prediction method: %d", sh.PredMethod)
	}
	if err != nil {
		return nil, err
	}

	// Restore the wasted bits-per-sample by shifting the decoded samples
	// back up.
	if sh.WastedBitCount > 0 {
		for i, sample := range subframe.Samples {
			subframe.Samples[i] = sample << sh.WastedBitCount
		}
	}

	return subframe, nil
}

// A SubHeader is a subframe header, which contains information about how the
// subframe audio samples are encoded.
type SubHeader struct {
	// PredMethod is the subframe prediction method.
	PredMethod PredMethod
	// WastedBitCount is the number of wasted bits-per-sample, common to
	// every sample of the subframe.
	WastedBitCount uint8
	// PredOrder is the subframe predictor order, which is used accordingly:
	//    Fixed: predictor order.
	//    LPC:   LPC order.
	PredOrder int8
}

// PredMethod specifies the subframe prediction method.
type PredMethod int8

// Subframe prediction methods.
const (
	PredConstant PredMethod = iota
	PredFixed
	PredLPC
	PredVerbatim
)

// NewSubHeader parses and returns a new subframe header.
//
// Subframe header format (pseudo code):
//
//	type SUBFRAME_HEADER struct {
//	   _                uint1 // zero-padding, to prevent sync-fooling.
//	   type             uint6
//	   // 0: no wasted bits-per-sample in source subblock, k = 0.
//	   // 1: k wasted bits-per-sample in source subblock, k-1 follows, unary
//	   // coded; e.g. k=3 => 001 follows, k=7 => 0000001 follows.
//	   wasted_bit_count uint1+k
//	}
//
// ref: https://www.xiph.org/flac/format.html#subframe_header
func (h *Header) NewSubHeader(br *bits.Reader) (sh *SubHeader, err error) {
	// 1 bit: padding.
	pad, err := br.Read(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if pad != 0 {
		return nil, errors.New("frame.Header.NewSubHeader: invalid padding; must be 0")
	}

	// 6 bits: type.
	//    000000: SUBFRAME_CONSTANT
	//    000001: SUBFRAME_VERBATIM
	//    00001x: reserved
	//    0001xx: reserved
	//    001xxx: if(xxx <= 4) SUBFRAME_FIXED, xxx=order ; else reserved
	//    01xxxx: reserved
	//    1xxxxx: SUBFRAME_LPC, xxxxx=order-1
	n, err := br.Read(6)
	if err != nil {
		return nil, unexpected(err)
	}
	sh = new(SubHeader)
	switch {
	case n == 0:
		sh.PredMethod = PredConstant
	case n == 1:
		sh.PredMethod = PredVerbatim
	case n < 8:
		return nil, fmt.Errorf("frame.Header.NewSubHeader: invalid subframe prediction method; reserved bit pattern %06b", n)
	case n < 16:
		const predOrderMask = 0x07
		sh.PredOrder = int8(n) & predOrderMask
		if sh.PredOrder > 4 {
			return nil, fmt.Errorf("frame.Header.NewSubHeader: invalid subframe prediction method; reserved bit pattern %06b", n)
		}
		sh.PredMethod = PredFixed
	case n < 32:
		return nil, fmt.Errorf("frame.Header.NewSubHeader: invalid subframe prediction method; reserved bit pattern %06b", n)
	default:
		const predOrderMask = 0x1F
		sh.PredOrder = int8(n)&predOrderMask + 1
		sh.PredMethod = PredLPC
	}

	// 1+k bits: wasted bits-per-sample.
	hasWastedBits, err := br.Read(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if hasWastedBits != 0 {
		k, err := br.ReadUnary()
		if err != nil {
			return nil, unexpected(err)
		}
		sh.WastedBitCount = uint8(k) + 1
	}

	return sh, nil
}

// DecodeConstant decodes and returns a slice of samples. The first sample is
// constant throughout the entire subframe.
//
// ref: https://www.xiph.org/flac/format.html#subframe_constant
func (h *Header) DecodeConstant(br *bits.Reader, bps uint) (samples []Sample, err error) {
	x, err := br.Read(bps)
	if err != nil {
		return nil, unexpected(err)
	}
	sample := Sample(signExtend(x, bps))

	samples = make([]Sample, h.SampleCount)
	for i := range samples {
		samples[i] = sample
	}
	return samples, nil
}

// signExtend interprets x as a signed n-bit integer value and sign extends
// it to 32 bits.
func signExtend(x uint64, n uint) int32 {
	if n == 0 {
		return 0
	}
	if x&(1<<(n-1)) != 0 {
		return int32(x | ^uint64(0)<<n)
	}
	return int32(x)
}

// fixedCoeffs maps from prediction order to the LPC coefficients used in
// fixed encoding.
//
//	x_0[n] = 0
//	x_1[n] = x[n-1]
//	x_2[n] = 2*x[n-1] - x[n-2]
//	x_3[n] = 3*x[n-1] - 3*x[n-2] + x[n-3]
//	x_4[n] = 4*x[n-1] - 6*x[n-2] + 4*x[n-3] - x[n-4]
//
// ref: Section 2.2 of http://www.hpl.hp.com/techreports/1999/HPL-1999-144.pdf
var fixedCoeffs = [...][]int32{
	0: {},
	1: {1},
	2: {2, -1},
	3: {3, -3, 1},
	4: {4, -6, 4, -1},
}

// DecodeFixed decodes and returns a slice of samples, using a fixed linear
// predictor of the given order.
//
// ref: https://www.xiph.org/flac/format.html#subframe_fixed
func (h *Header) DecodeFixed(br *bits.Reader, predOrder int, bps uint) (samples []Sample, err error) {
	// Unencoded warm-up samples:
	//    n bits = frame's bits-per-sample * predictor order
	warm := make([]Sample, predOrder)
	for i := range warm {
		x, err := br.Read(bps)
		if err != nil {
			return nil, unexpected(err)
		}
		warm[i] = Sample(signExtend(x, bps))
	}

	residuals, err := h.DecodeResidual(br, predOrder)
	if err != nil {
		return nil, err
	}
	return lpcDecode(fixedCoeffs[predOrder], warm, residuals, 0), nil
}

// lpcDecode reconstructs a set of samples from their warm-up samples and
// residuals, using LPC (Linear Predictive Coding) with an FIR (Finite
// Impulse Response) predictor.
func lpcDecode(coeffs []int32, warm []Sample, residuals []int32, shift uint) (samples []Sample) {
	samples = make([]Sample, len(warm)+len(residuals))
	copy(samples, warm)
	for i := len(warm); i < len(samples); i++ {
		var sum int64
		for j, coeff := range coeffs {
			sum += int64(coeff) * int64(samples[i-j-1])
		}
		samples[i] = Sample(residuals[i-len(warm)] + int32(sum>>shift))
	}
	return samples
}

// DecodeLPC decodes and returns a slice of samples, using a quantized linear
// predictor of the given order.
//
// ref: https://www.xiph.org/flac/format.html#subframe_lpc
func (h *Header) DecodeLPC(br *bits.Reader, lpcOrder int, bps uint) (samples []Sample, err error) {
	// Unencoded warm-up samples:
	//    n bits = frame's bits-per-sample * lpc order
	warm := make([]Sample, lpcOrder)
	for i := range warm {
		x, err := br.Read(bps)
		if err != nil {
			return nil, unexpected(err)
		}
		warm[i] = Sample(signExtend(x, bps))
	}

	// 4 bits: (quantized linear predictor coefficients' precision in bits) - 1.
	x, err := br.Read(4)
	if err != nil {
		return nil, unexpected(err)
	}
	if x == 0xF {
		return nil, errors.New("frame.Header.DecodeLPC: invalid quantized lpc precision; reserved bit pattern 1111")
	}
	qlpcPrec := uint(x) + 1

	// 5 bits: quantized linear predictor coefficient shift, signed.
	x, err = br.Read(5)
	if err != nil {
		return nil, unexpected(err)
	}
	qlpcShift := signExtend(x, 5)
	if qlpcShift < 0 {
		return nil, fmt.Errorf("frame.Header.DecodeLPC: negative quantized lpc shift (%d) not supported", qlpcShift)
	}

	// Unencoded predictor coefficients.
	coeffs := make([]int32, lpcOrder)
	for i := range coeffs {
		x, err := br.Read(qlpcPrec)
		if err != nil {
			return nil, unexpected(err)
		}
		coeffs[i] = signExtend(x, qlpcPrec)
	}

	residuals, err := h.DecodeResidual(br, lpcOrder)
	if err != nil {
		return nil, err
	}

	return lpcDecode(coeffs, warm, residuals, uint(qlpcShift)), nil
}

// DecodeVerbatim decodes and returns a slice of samples. The samples are
// stored unencoded.
//
// ref: https://www.xiph.org/flac/format.html#subframe_verbatim
func (h *Header) DecodeVerbatim(br *bits.Reader, bps uint) (samples []Sample, err error) {
	samples = make([]Sample, h.SampleCount)
	for i := range samples {
		x, err := br.Read(bps)
		if err != nil {
			return nil, unexpected(err)
		}
		samples[i] = Sample(signExtend(x, bps))
	}
	return samples, nil
}

// DecodeResidual decodes and returns a slice of residuals.
//
// ref: https://www.xiph.org/flac/format.html#residual
func (h *Header) DecodeResidual(br *bits.Reader, predOrder int) (residuals []int32, err error) {
	// 2 bits: residual coding method.
	method, err := br.Read(2)
	if err != nil {
		return nil, unexpected(err)
	}
	switch method {
	case 0:
		// 00: partitioned Rice coding with a 4-bit Rice parameter;
		// RESIDUAL_CODING_METHOD_PARTITIONED_RICE follows.
		return h.decodeRicePart(br, predOrder, 4)
	case 1:
		// 01: partitioned Rice coding with a 5-bit Rice parameter;
		// RESIDUAL_CODING_METHOD_PARTITIONED_RICE2 follows.
		return h.decodeRicePart(br, predOrder, 5)
	}
	// 1x: reserved.
	return nil, fmt.Errorf("frame.Header.DecodeResidual: invalid residual coding method; reserved bit pattern %02b", method)
}

// decodeRicePart decodes and returns a slice of residuals using partitioned
// Rice coding. paramBits is the width (4 or 5) of each partition's Rice
// parameter field.
//
// ref: https://www.xiph.org/flac/format.html#partitioned_rice
// ref: https://www.xiph.org/flac/format.html#partitioned_rice2
func (h *Header) decodeRicePart(br *bits.Reader, predOrder int, paramBits uint) (residuals []int32, err error) {
	// 4 bits: partition order.
	x, err := br.Read(4)
	if err != nil {
		return nil, unexpected(err)
	}
	partOrder := uint(x)
	partCount := 1 << partOrder
	if int(h.SampleCount)%partCount != 0 {
		return nil, fmt.Errorf("frame.Header.decodeRicePart: sample count (%d) not evenly divisible by partition count (%d)", h.SampleCount, partCount)
	}

	// escapeCode marks a Rice parameter as introducing an unencoded
	// (verbatim) partition instead of Rice-coded residuals: all bits of the
	// parameter field set.
	escapeCode := uint64(1)<<paramBits - 1

	residuals = make([]int32, 0, int(h.SampleCount)-predOrder)
	partSize := int(h.SampleCount) / partCount
	for partNum := 0; partNum < partCount; partNum++ {
		n := partSize
		if partNum == 0 {
			n -= predOrder
		}

		// Rice parameter.
		riceParam, err := br.Read(paramBits)
		if err != nil {
			return nil, unexpected(err)
		}

		if riceParam == escapeCode {
			// Escape code: the partition is stored unencoded, using n bits
			// per residual; n follows as a 5-bit number.
			rawBits, err := br.Read(5)
			if err != nil {
				return nil, unexpected(err)
			}
			for i := 0; i < n; i++ {
				x, err := br.Read(uint(rawBits))
				if err != nil {
					return nil, unexpected(err)
				}
				residuals = append(residuals, signExtend(x, uint(rawBits)))
			}
			continue
		}

		partResiduals, err := decodeRiceResidual(br, uint(riceParam), n)
		if err != nil {
			return nil, err
		}
		residuals = append(residuals, partResiduals...)
	}

	return residuals, nil
}

// decodeRiceResidual decodes n residuals encoded with Rice coding using
// parameter k.
func decodeRiceResidual(br *bits.Reader, k uint, n int) (residuals []int32, err error) {
	residuals = make([]int32, n)
	for i := 0; i < n; i++ {
		high, err := br.ReadUnary()
		if err != nil {
			return nil, unexpected(err)
		}
		low, err := br.Read(k)
		if err != nil {
			return nil, unexpected(err)
		}
		u := uint32(high<<k | low)
		residuals[i] = bits.DecodeZigZag(u)
	}
	return residuals, nil
}
