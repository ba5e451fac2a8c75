package skills

// FullOverlap is the overlap score of a job that requires no known skills.
const FullOverlap = 100.0

// OverlapScore is the weighted share of job skills present in the resume, in [0,100]:
// sum of weights of shared skills divided by the sum of weights of all job skills.
func (d *Dictionary) OverlapScore(resume, job Set) float64 {
	if job.Len() == 0 {
		return FullOverlap
	}

	var matched, total float64
	for skill := range job {
		w := d.Weight(skill)
		total += w
		if resume.Has(skill) {
			matched += w
		}
	}

	if total <= 0 {
		return FullOverlap
	}

	return matched / total * 100
}
