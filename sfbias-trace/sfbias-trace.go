// Sfbias-trace plots the estimation trace written by sfbias
// (-trace): the parameter change norm and the bias estimate against
// the iteration number.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/mrrlab/sfbias/mixture"
)

func readTrace(fn string) ([]mixture.Iterate, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var trace []mixture.Iterate
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var it mixture.Iterate
		if err := json.Unmarshal(line, &it); err != nil {
			return nil, err
		}
		trace = append(trace, it)
	}
	return trace, scanner.Err()
}

func save(label string, pts plotter.XYs, out string) error {
	p := plot.New()
	p.Title.Text = label
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = label

	if err := plotutil.AddLinePoints(p, label, pts); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, out)
}

func main() {
	prefix := flag.String("prefix", "trace", "output filename prefix")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: sfbias-trace [-prefix p] trace.jsonl")
	}

	trace, err := readTrace(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if len(trace) == 0 {
		log.Fatal("empty trace")
	}

	eps := make(plotter.XYs, len(trace))
	delta := make(plotter.XYs, len(trace))
	for i, it := range trace {
		eps[i].X = float64(it.Iter)
		eps[i].Y = it.Eps
		delta[i].X = float64(it.Iter)
		delta[i].Y = it.Params.Delta
	}

	if err := save("eps", eps, *prefix+"-eps.png"); err != nil {
		log.Fatal(err)
	}
	if err := save("delta", delta, *prefix+"-delta.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s-eps.png and %s-delta.png\n", *prefix, *prefix)
}
