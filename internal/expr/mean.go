package expr

import "sort"

// Mean is the average TPM of one transcript under one condition.
type Mean struct {
	TranscriptID string
	Genotype     string
	Timepoint    string
	MeanTPM      float64
}

// ComputeMeans reduces the long sample table by grouping on
// (transcript_id, genotype, timepoint) and averaging TPM. Replicate counts
// per group need not be uniform; the mean is over however many replicates
// are present. Output is sorted by the group key.
func ComputeMeans(samples []Sample) []Mean {
	type groupKey struct {
		transcriptID string
		genotype     string
		timepoint    string
	}
	type acc struct {
		sum   float64
		count int
	}

	groups := make(map[groupKey]*acc)
	for _, s := range samples {
		k := groupKey{s.TranscriptID, s.Genotype, s.Timepoint}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.sum += s.TPM
		g.count++
	}

	means := make([]Mean, 0, len(groups))
	for k, g := range groups {
		means = append(means, Mean{
			TranscriptID: k.transcriptID,
			Genotype:     k.genotype,
			Timepoint:    k.timepoint,
			MeanTPM:      g.sum / float64(g.count),
		})
	}

	sort.Slice(means, func(i, j int) bool {
		a, b := means[i], means[j]
		if a.TranscriptID != b.TranscriptID {
			return a.TranscriptID < b.TranscriptID
		}
		if a.Genotype != b.Genotype {
			return a.Genotype < b.Genotype
		}
		return a.Timepoint < b.Timepoint
	})

	return means
}

// Conditions returns the distinct (genotype, timepoint) pairs present in
// the mean table, as "genotype_timepoint" keys, sorted lexicographically.
func Conditions(means []Mean) []string {
	seen := make(map[string]bool)
	var conds []string
	for _, m := range means {
		key := m.Genotype + "_" + m.Timepoint
		if seen[key] {
			continue
		}
		seen[key] = true
		conds = append(conds, key)
	}
	sort.Strings(conds)
	return conds
}
