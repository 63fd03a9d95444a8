package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"seqtree-core/distance"
	"seqtree-core/errs"
	"seqtree-core/matrix"
	"seqtree-core/seq"

	"seqtree/internal/runutil"
)

// Config controls one build.
type Config struct {
	Strategy matrix.Strategy // all-pairs when empty
	Threads  int             // worker goroutines; <1 means NumCPU
	MaxCells int64           // combined DP cell ceiling; 0 disables
	Logger   *zap.Logger     // nil logs nothing
}

// Result is a finished build.
type Result struct {
	Matrix     *matrix.DistanceMatrix
	Strategy   matrix.Strategy
	Reference  int      // index of the reference record, -1 for all-pairs
	Aligned    []string // aligned-to-reference rows, reference strategy only
	Alignments int      // alignments actually computed
	CacheHits  int
}

type job struct {
	i, j int
}

type outcome struct {
	i, j    int
	dist    int
	aligned string
	hit     bool
	err     error
}

// Build aligns records according to cfg.Strategy and fills a distance
// matrix labelled with the record names in input order. Any alignment or
// cache error, or ctx cancellation, fails the whole build.
func Build(ctx context.Context, cfg Config, records []seq.Record, al Aligner, cache DistanceCache) (Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(records) < 2 {
		return Result{}, errs.InsufficientData("need at least 2 sequences to build a distance matrix, got %d", len(records))
	}
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = matrix.AllPairs
	}

	labels := make([]string, len(records))
	seqs := make([]string, len(records))
	lens := make([]int, len(records))
	for k, r := range records {
		labels[k], seqs[k], lens[k] = r.Name, r.Seq, len(r.Seq)
	}
	m, err := matrix.New(labels)
	if err != nil {
		return Result{}, err
	}

	res := Result{Matrix: m, Strategy: strategy, Reference: -1}
	var jobs []job
	switch strategy {
	case matrix.Reference:
		res.Reference = matrix.SelectReference(seqs)
		for k := range records {
			jobs = append(jobs, job{i: res.Reference, j: k})
		}
		log.Info("reference selected",
			zap.Int("index", res.Reference),
			zap.String("name", labels[res.Reference]),
			zap.Int("length", lens[res.Reference]))
	case matrix.AllPairs:
		jobs = make([]job, 0, runutil.PairCount(len(records)))
		for i := range records {
			for j := i + 1; j < len(records); j++ {
				jobs = append(jobs, job{i: i, j: j})
			}
		}
	default:
		return Result{}, fmt.Errorf("unknown strategy %q", strategy)
	}

	planned := runutil.PlannedCells(strategy, lens, res.Reference, cfg.MaxCells)
	if err := runutil.CheckWorkload(planned, cfg.MaxCells); err != nil {
		return Result{}, err
	}

	threads := runutil.EffectiveThreads(cfg.Threads)
	if threads > len(jobs) {
		threads = len(jobs)
	}
	log.Debug("build started",
		zap.String("strategy", string(strategy)),
		zap.Int("records", len(records)),
		zap.Int("alignments", len(jobs)),
		zap.Int64("planned_cells", planned),
		zap.Int("threads", threads))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	hamming := distance.For(al.CaseSensitive())
	work := func(j job) outcome {
		o := outcome{i: j.i, j: j.j}
		if strategy == matrix.Reference {
			var err error
			if o.aligned, err = al.AlignToReference(seqs[j.i], seqs[j.j]); err != nil {
				o.err = fmt.Errorf("align %q to reference: %w", labels[j.j], err)
			}
			return o
		}
		var key string
		if cache != nil {
			key = CacheKey(al.Fingerprint(), seqs[j.i], seqs[j.j])
			d, ok, err := cache.Get(runCtx, key)
			if err != nil {
				o.err = fmt.Errorf("cache get: %w", err)
				return o
			}
			if ok {
				o.dist, o.hit = d, true
				return o
			}
		}
		r, err := al.Align(seqs[j.i], seqs[j.j])
		if err != nil {
			o.err = fmt.Errorf("align %q vs %q: %w", labels[j.i], labels[j.j], err)
			return o
		}
		o.dist = hamming(r.A, r.B)
		if cache != nil {
			if err := cache.Put(runCtx, key, o.dist); err != nil {
				o.err = fmt.Errorf("cache put: %w", err)
			}
		}
		return o
	}

	jobCh := make(chan job, threads*2)
	results := make(chan outcome, threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case j, ok := <-jobCh:
					if !ok {
						return
					}
					o := work(j)
					select {
					case results <- o:
					case <-runCtx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cerr    error
		cwg     sync.WaitGroup
		aligned = make([]string, len(records))
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for o := range results {
			if cerr != nil {
				continue
			}
			if o.err != nil {
				cerr = o.err
				cancel()
				continue
			}
			if strategy == matrix.Reference {
				aligned[o.j] = o.aligned
				res.Alignments++
				continue
			}
			if o.hit {
				res.CacheHits++
			} else {
				res.Alignments++
			}
			if err := m.Set(o.i, o.j, float64(o.dist)); err != nil {
				cerr = err
				cancel()
			}
		}
	}()

	// Feed work
feed:
	for _, j := range jobs {
		select {
		case <-runCtx.Done():
			break feed
		case jobCh <- j:
		}
	}

	close(jobCh)
	wg.Wait()
	close(results)
	cwg.Wait()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if cerr != nil {
		return Result{}, cerr
	}

	if strategy == matrix.Reference {
		for i := range aligned {
			for j := i + 1; j < len(aligned); j++ {
				if err := m.Set(i, j, float64(hamming(aligned[i], aligned[j]))); err != nil {
					return Result{}, err
				}
			}
		}
		res.Aligned = aligned
	}
	if err := m.Validate(); err != nil {
		return Result{}, fmt.Errorf("distance matrix: %w", err)
	}
	if cache != nil {
		log.Debug("distance cache", zap.Int("hits", res.CacheHits), zap.Int("misses", res.Alignments))
	}
	return res, nil
}
