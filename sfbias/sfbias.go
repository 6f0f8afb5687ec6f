/*

Sfbias estimates the sampling-fraction bias between two sample groups
from per-taxon log-ratio differences and their known variances. A
three-component Gaussian mixture separates unbiased taxa from two
asymmetric outlier classes; its parameters are estimated by
expectation-maximization.

The basic usage of sfbias looks like this:

	sfbias estimates.tsv

, where the input table has three whitespace-separated columns: taxon
id, log-ratio difference and its variance.

You can change the scalar minimization backend used for the variance
updates:

	sfbias -method lbfgsb estimates.tsv

To see all the options run:

	sfbias -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/mrrlab/sfbias/checkpoint"
	"bitbucket.org/mrrlab/sfbias/mixture"
	"bitbucket.org/mrrlab/sfbias/stats"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("sfbias")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("sfbias", "sampling-fraction bias estimator").Version(version)

	// input
	inputFileName = app.Arg("estimates", "per-taxon estimate table (taxon, difference, variance)").Required().ExistingFile()

	// initial parameter values
	pi0     = app.Flag("pi0", "initial weight of the null component").Default("0.75").Float64()
	pi1     = app.Flag("pi1", "initial weight of the negative-outlier component").Default("0.125").Float64()
	pi2     = app.Flag("pi2", "initial weight of the positive-outlier component").Default("0.125").Float64()
	delta0  = app.Flag("delta0", "initial bias").Default("0").Float64()
	wlsInit = app.Flag("wlsinit", "initialize the bias from the weighted least-squares estimate "+
		"(overrides --delta0)").Bool()
	l10     = app.Flag("l1", "initial negative shift (<=0)").Default("-1").Float64()
	l20     = app.Flag("l2", "initial positive shift (>=0)").Default("1").Float64()
	kappa10 = app.Flag("kappa1", "initial extra variance of the negative-outlier component (>=0)").Default("1").Float64()
	kappa20 = app.Flag("kappa2", "initial extra variance of the positive-outlier component (>=0)").Default("1").Float64()

	// estimation parameters
	tol        = app.Flag("tol", "convergence tolerance on the parameter change norm").Default("1e-5").Float64()
	iterations = app.Flag("iter", "maximum number of EM iterations").Default("100").Int()
	report     = app.Flag("report", "report every N iterations").Default("10").Int()
	method     = app.Flag("method", "scalar minimization method for the variance updates "+
		"(simplex: downhill simplex, "+
		"lbfgsb: limited-memory Broyden-Fletcher-Goldfarb-Shanno with bounding constraints, "+
		"annealing: simulated annealing"+
		")").Default("simplex").Enum("simplex", "lbfgsb", "annealing")
	conf = app.Flag("conf", "confidence level of the WLS interval").Default("0.95").Float64()

	// technical
	nThreads = app.Flag("nt", "number of threads to use").Int()
	seed     = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	// checkpoints
	ckpFileName = app.Flag("ckp", "checkpoint database filename").String()
	ckpKey      = app.Flag("ckpkey", "checkpoint record key").Default("em").String()
	ckpSeconds  = app.Flag("ckpevery", "minimum number of seconds between checkpoint saves").Default("10").Float64()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	traceF   = app.Flag("trace", "write the estimation trace to a file (JSON lines)").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json summary to a file (stdout by default)").String()
)

// run performs the estimation and returns a run summary.
func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{Method: *method}

	inputFile, err := os.Open(*inputFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer inputFile.Close()

	taxa, obs, v0, err := readTable(inputFile)
	if err != nil {
		log.Fatal("Error reading estimate table:", err)
	}
	if len(taxa) == 0 {
		log.Fatal("Empty estimate table")
	}
	log.Infof("Read %d per-taxon estimates", len(taxa))
	summary.NTaxa = len(taxa)

	wls, err := stats.WLS(obs, v0, *conf)
	if err != nil {
		log.Fatal("Error computing WLS estimate:", err)
	}
	log.Noticef("WLS bias estimate: %g (%g, %g)", wls.Estimate, wls.Lower, wls.Upper)
	summary.WLS = wls

	init := mixture.Params{
		Pi0:    *pi0,
		Pi1:    *pi1,
		Pi2:    *pi2,
		Delta:  *delta0,
		L1:     *l10,
		L2:     *l20,
		Kappa1: *kappa10,
		Kappa2: *kappa20,
	}
	if *wlsInit {
		log.Info("Initializing bias from the WLS estimate")
		init.Delta = wls.Estimate
	}

	est, err := mixture.NewEstimator(obs, v0, init, *tol, *iterations)
	if err != nil {
		log.Fatal(err)
	}
	est.SetMethod(*method, *seed)
	est.SetReportPeriod(*report)
	if *traceF != "" {
		est.SetTrace(true)
	}

	if *ckpFileName != "" {
		db, err := bolt.Open(*ckpFileName, 0666, nil)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()
		est.SetCheckpointIO(checkpoint.NewIO(db, []byte(*ckpKey), *ckpSeconds))
	}

	res, err := est.Run()
	if err != nil {
		log.Fatal("Estimation failed:", err)
	}
	summary.EM = res

	log.Noticef("EM bias estimate: %g", res.Params.Delta)
	log.Noticef("Final parameters: %s", &res.Params)

	if *traceF != "" {
		f, err := os.Create(*traceF)
		if err != nil {
			log.Error("Error creating trace file:", err)
		} else {
			enc := json.NewEncoder(f)
			trace := est.Trace()
			for i := range trace {
				if err := enc.Encode(&trace[i]); err != nil {
					log.Error("Error writing trace:", err)
					break
				}
			}
			f.Close()
		}
	}

	endTime := time.Now()
	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "sfbias")
	logging.SetLevel(level, "mixture")
	logging.SetLevel(level, "optimize")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	if *nThreads > 0 {
		runtime.GOMAXPROCS(*nThreads)
	}
	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	summary := run()
	summary.NThreads = effectiveNThreads
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	// output summary in json format
	j, err := json.Marshal(summary)
	if err != nil {
		log.Error(err)
		return
	}
	if *jsonF != "" {
		f, err := os.Create(*jsonF)
		if err != nil {
			log.Error("Error creating json output file:", err)
			return
		}
		defer f.Close()
		f.Write(j)
		f.WriteString("\n")
	} else {
		fmt.Println(string(j))
	}
}
