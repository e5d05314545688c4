// Package processing takes care of the logistics around evaluating many camera poses:
// reading them from a Source, spreading them over workers and writing the results to a Target.
// Not the visibility search itself.
package processing

import (
	"log"
	"sync"
	"sync/atomic"
)

// readPosesFromSource reads the poses from the given source until it is exhausted
func readPosesFromSource(source Source, poses chan<- Pose) {
	source.ReadPoses(poses)
}

// evaluatePoses evaluates the incoming poses with its own camera
func evaluatePoses(posesIn <-chan Pose, resultsOut chan<- Result, e Evaluator, counts *tally) error {
	c, err := e.NewCamera()
	for p := range posesIn {
		if err != nil {
			p.err = err
		}
		result := e.Evaluate(c, p)
		if result.Error != "" {
			counts.failed.Add(1)
		}
		counts.poses.Add(1)
		counts.tiles.Add(uint64(len(result.Tiles)))
		resultsOut <- result
	}
	return err
}

type tally struct {
	poses, failed, tiles atomic.Uint64
}

// EvaluatePoses evaluates every pose of the source on workers goroutines, each with its own camera,
// and writes the results to the target. Results are written in the order they finish.
func EvaluatePoses(source Source, target Target, e Evaluator, workers int) {
	if workers < 1 {
		workers = 1
	}
	posesIn := make(chan Pose)
	resultsOut := make(chan Result)
	var counts tally

	wgWriter := sync.WaitGroup{}
	wgWriter.Add(1)
	go func() {
		defer wgWriter.Done()
		target.WriteResults(resultsOut)
	}()

	wgWorkers := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wgWorkers.Add(1)
		go func() {
			defer wgWorkers.Done()
			if err := evaluatePoses(posesIn, resultsOut, e, &counts); err != nil {
				log.Printf("could not create camera: %v", err)
			}
		}()
	}
	go readPosesFromSource(source, posesIn)

	wgWorkers.Wait()
	close(resultsOut)
	wgWriter.Wait()

	log.Printf("    total poses: %d", counts.poses.Load())
	log.Printf("         failed: %d", counts.failed.Load())
	log.Printf("  visible tiles: %d", counts.tiles.Load())
}
