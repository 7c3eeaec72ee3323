package planner

import (
	"fmt"
	"runtime"
	"time"

	"github.com/felixgeelhaar/wavegate/internal/criteria"
)

// Network latency and disk load thresholds for adaptive scheduling.
const (
	highLatencyMs     = 200
	moderateLatencyMs = 100
	highDiskLoad      = 0.8
	moderateDiskLoad  = 0.5

	// memoryPerCriterion is the working assumption for how much memory
	// one concurrent criterion needs.
	memoryPerCriterion = 512 << 20 // 512 MiB
	lowMemoryBytes     = 1 << 30   // 1 GiB
)

// SystemInfo describes live resource conditions of the host.
type SystemInfo struct {
	AvailableCPUs        int     `json:"availableCPUs"`
	AvailableMemoryBytes int64   `json:"availableMemory"`
	NetworkLatencyMs     int     `json:"networkLatencyMs"`
	DiskIOLoad           float64 `json:"diskIOLoad"`
}

// DefaultSystemInfo returns a conservative SystemInfo derived from the
// local runtime, for callers that don't probe the host themselves.
func DefaultSystemInfo() SystemInfo {
	return SystemInfo{
		AvailableCPUs:        runtime.NumCPU(),
		AvailableMemoryBytes: 4 << 30,
		NetworkLatencyMs:     50,
		DiskIOLoad:           0.3,
	}
}

// Dimensions holds the independent per-resource concurrency caps.
type Dimensions struct {
	CPUOptimized     int `json:"cpuOptimized"`
	MemoryOptimized  int `json:"memoryOptimized"`
	NetworkOptimized int `json:"networkOptimized"`
	DiskOptimized    int `json:"diskOptimized"`
}

// SchedulingSuggestion is a resource-driven hint for how the plan
// should be laid out.
type SchedulingSuggestion struct {
	Type           string   `json:"type"`
	Recommendation string   `json:"recommendation"`
	CriterionIDs   []string `json:"criterionIds,omitempty"`
}

// ExecutionTiming summarizes when the adapted plan was produced and how
// long it is expected to take.
type ExecutionTiming struct {
	GeneratedAt              time.Time `json:"generatedAt"`
	EstimatedTotalDurationMs int64     `json:"estimatedTotalDurationMs"`
	EstimatedCompletion      time.Time `json:"estimatedCompletion"`
}

// AdaptivePlan is a parallel plan adjusted to live system conditions.
type AdaptivePlan struct {
	Plan

	SystemAware            bool                   `json:"systemAware"`
	RecommendedConcurrency int                    `json:"recommendedConcurrency"`
	Dimensions             Dimensions             `json:"dimensions"`
	ResourceScheduling     []SchedulingSuggestion `json:"resourceScheduling,omitempty"`
	ExecutionTiming        ExecutionTiming        `json:"executionTiming"`
}

// Adaptive computes a wave plan whose concurrency is scaled to the
// host: roughly one concurrent criterion per CPU, independently capped
// by memory headroom, network latency, and disk pressure, floor 1.
// Wave assignment itself delegates to ParallelPlan.
func Adaptive(g *criteria.Graph, ids []string, sys SystemInfo) (AdaptivePlan, error) {
	dims := computeDimensions(sys)
	concurrency := minOf(dims.CPUOptimized, dims.MemoryOptimized, dims.NetworkOptimized, dims.DiskOptimized)
	if concurrency < 1 {
		concurrency = 1
	}

	plan, err := ParallelPlan(g, ids, concurrency)
	if err != nil {
		return AdaptivePlan{}, err
	}

	now := time.Now()
	out := AdaptivePlan{
		Plan:                   plan,
		SystemAware:            true,
		RecommendedConcurrency: concurrency,
		Dimensions:             dims,
		ExecutionTiming: ExecutionTiming{
			GeneratedAt:              now,
			EstimatedTotalDurationMs: plan.EstimatedTotalDurationMs,
			EstimatedCompletion:      now.Add(time.Duration(plan.EstimatedTotalDurationMs) * time.Millisecond),
		},
	}

	if sys.NetworkLatencyMs > highLatencyMs {
		out.ResourceScheduling = append(out.ResourceScheduling, SchedulingSuggestion{
			Type: "network_prioritization",
			Recommendation: fmt.Sprintf(
				"network latency is high (%dms); schedule network-dependent criteria earliest or isolate them into their own wave",
				sys.NetworkLatencyMs),
			CriterionIDs: networkBound(g, plan),
		})
	}

	return out, nil
}

func computeDimensions(sys SystemInfo) Dimensions {
	cpus := sys.AvailableCPUs
	if cpus < 1 {
		cpus = 1
	}

	dims := Dimensions{
		CPUOptimized:     clamp(cpus, 1, maxRecommendedConcurrency),
		MemoryOptimized:  maxRecommendedConcurrency,
		NetworkOptimized: clamp(cpus, 1, maxRecommendedConcurrency),
		DiskOptimized:    clamp(cpus, 1, maxRecommendedConcurrency),
	}

	if sys.AvailableMemoryBytes > 0 {
		byMemory := int(sys.AvailableMemoryBytes / memoryPerCriterion)
		dims.MemoryOptimized = clamp(byMemory, 1, maxRecommendedConcurrency)
		if sys.AvailableMemoryBytes < lowMemoryBytes {
			dims.MemoryOptimized = 1
		}
	}

	switch {
	case sys.NetworkLatencyMs > highLatencyMs:
		dims.NetworkOptimized = clamp(cpus/4, 1, maxRecommendedConcurrency)
	case sys.NetworkLatencyMs > moderateLatencyMs:
		dims.NetworkOptimized = clamp(cpus/2, 1, maxRecommendedConcurrency)
	}

	switch {
	case sys.DiskIOLoad > highDiskLoad:
		dims.DiskOptimized = clamp(cpus/4, 1, maxRecommendedConcurrency)
	case sys.DiskIOLoad > moderateDiskLoad:
		dims.DiskOptimized = clamp(cpus/2, 1, maxRecommendedConcurrency)
	}

	return dims
}

// networkBound returns the scheduled criteria that declare a network
// resource requirement, in wave order.
func networkBound(g *criteria.Graph, plan Plan) []string {
	var ids []string
	for _, id := range plan.CriterionIDs() {
		c, ok := g.Get(id)
		if ok && c.Metadata.RequiresResource(criteria.ResourceNetwork) {
			ids = append(ids, id)
		}
	}
	return ids
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minOf(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
