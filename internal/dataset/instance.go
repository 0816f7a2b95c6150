package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInstanceID extracts the repository and issue/PR number from a
// dataset instance identifier of the form <owner>__<repo>-<number>,
// e.g. "sympy__sympy-22914" -> ("sympy/sympy", 22914).
//
// When the entry carries an explicit repository, only the trailing
// number is taken from the identifier. The number is split on the LAST
// hyphen so hyphenated repository names (e.g. scikit-learn) parse
// correctly.
func ParseInstanceID(instanceID, repo string) (string, int, error) {
	if repo != "" {
		idx := strings.LastIndex(instanceID, "-")
		if idx < 0 || idx == len(instanceID)-1 {
			return "", 0, fmt.Errorf("no number suffix in instance id %q", instanceID)
		}
		number, err := strconv.Atoi(instanceID[idx+1:])
		if err != nil {
			return "", 0, fmt.Errorf("invalid number in instance id %q: %w", instanceID, err)
		}
		return repo, number, nil
	}

	sep := strings.Index(instanceID, "__")
	if sep <= 0 {
		return "", 0, fmt.Errorf("no owner__repo separator in instance id %q", instanceID)
	}
	owner := instanceID[:sep]
	rest := instanceID[sep+2:]

	idx := strings.LastIndex(rest, "-")
	if idx <= 0 || idx == len(rest)-1 {
		return "", 0, fmt.Errorf("no number suffix in instance id %q", instanceID)
	}
	number, err := strconv.Atoi(rest[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid number in instance id %q: %w", instanceID, err)
	}

	return owner + "/" + rest[:idx], number, nil
}

// SplitRepo splits an owner/name repository string.
func SplitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository name: %s", repo)
	}
	return parts[0], parts[1], nil
}
