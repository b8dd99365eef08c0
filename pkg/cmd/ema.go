package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"github.com/ssrl/fastind/pkg/indicator"
)

var errRaggedArray = errors.New("json input is not a rectangular array")

// fastind ema --span 3 -- 1 2 3 4
// echo '[1, 2, 3, 4]' | fastind ema --span 3 --input -
var emaCmd = &cobra.Command{
	Use:   "ema [values...]",
	Short: "compute the exponential moving average of a one-dimensional series",
	RunE: func(cmd *cobra.Command, args []string) error {
		span, err := cmd.Flags().GetInt("span")
		if err != nil {
			return err
		}

		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}

		var a indicator.NDArray
		switch {
		case input != "" && len(args) > 0:
			return errors.New("--input can not be used with positional values")

		case input != "":
			content, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			a, err = parseNDArray(content)
			if err != nil {
				return err
			}

		default:
			a, err = parseValues(args)
			if err != nil {
				return err
			}
		}

		out, err := indicator.EMAArray(a, span)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(marshalFloats(out.Data)))
		return err
	},
}

func init() {
	emaCmd.Flags().Int("span", 0, "the EMA span, alpha = 2 / (span + 1)")
	emaCmd.Flags().String("input", "", "read a JSON array from this file, - for stdin")
	RootCmd.AddCommand(emaCmd)
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}

	content, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read input %s", name)
	}

	return content, nil
}

func parseValues(args []string) (indicator.NDArray, error) {
	x := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return indicator.NDArray{}, errors.Wrapf(err, "value #%d", i)
		}
		x[i] = v
	}

	return indicator.NewArray1D(x), nil
}

// parseNDArray parses a JSON number or a (nested) JSON array of numbers into
// a row-major NDArray. null is read as NaN.
func parseNDArray(content []byte) (indicator.NDArray, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(content)
	if err != nil {
		return indicator.NDArray{}, errors.Wrap(err, "parse json input")
	}

	w := arrayWalker{leafDepth: -1}
	if err := w.walk(v, 0); err != nil {
		return indicator.NDArray{}, err
	}

	if w.shape == nil {
		w.shape = []int{}
	}
	return indicator.NDArray{Shape: w.shape, Data: w.data}, nil
}

type arrayWalker struct {
	shape     []int
	data      []float64
	leafDepth int
}

func (w *arrayWalker) walk(v *fastjson.Value, depth int) error {
	switch v.Type() {
	case fastjson.TypeNumber, fastjson.TypeNull:
		if w.leafDepth == -1 {
			w.leafDepth = depth
		} else if w.leafDepth != depth {
			return errRaggedArray
		}

		f := math.NaN()
		if v.Type() == fastjson.TypeNumber {
			f = v.GetFloat64()
		}
		w.data = append(w.data, f)
		return nil

	case fastjson.TypeArray:
		if w.leafDepth != -1 && depth >= w.leafDepth {
			return errRaggedArray
		}

		items := v.GetArray()
		switch {
		case depth == len(w.shape):
			w.shape = append(w.shape, len(items))
		case w.shape[depth] != len(items):
			return errRaggedArray
		}

		for _, item := range items {
			if err := w.walk(item, depth+1); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Errorf("unsupported json value type %s", v.Type())
	}
}

// marshalFloats renders values as a JSON array. Non-finite values are
// written as null.
func marshalFloats(values []float64) []byte {
	var a fastjson.Arena
	arr := a.NewArray()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			arr.SetArrayItem(i, a.NewNull())
			continue
		}

		arr.SetArrayItem(i, a.NewNumberFloat64(v))
	}

	return arr.MarshalTo(nil)
}
