// Package lockfile reads the pinned input set that anchors an evaluation.
//
// The lock file is a checked-in JSON document mapping symbolic input names
// to a source ref and a content digest. It is the only thing standing
// between the evaluator and the network: everything an evaluation consumes
// must be named here, and fetched content is verified against the pinned
// digest rather than re-hashed into the set.
//
// Example usage:
//
//	set, err := lockfile.Load("pinion.lock.json")
//	if err != nil {
//	    return err
//	}
//
//	in, err := set.Resolve("pkgs")
//	if err != nil {
//	    return err
//	}
//
//	if err := set.Verify("pkgs", content); err != nil {
//	    return err
//	}
package lockfile
