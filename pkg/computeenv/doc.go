// Package computeenv identifies the managed compute environment the
// current process runs on, using only local evidence: the SMBIOS identity
// strings and the presence of environment variables set by each platform's
// runtime. No network calls are made.
//
// Every catalog [Environment] has a detector that scores the evidence in
// [0, MaxScore]. [Detect] scores them all, drops those below the threshold
// and returns the rest best first. Ties are broken by specificity, then by
// catalog order, so the result is deterministic.
//
//	if best, ok := computeenv.DetectOne(computeenv.MaxIndividual); ok {
//		for _, attr := range best.Attributes() {
//			res = append(res, attribute.String(attr.Key, attr.Value))
//		}
//	}
//
// Variable values are never read into memory beyond the presence check,
// and never logged.
package computeenv
