package institution

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// PolicyFile is the YAML document used to seed institutions.
//
//	institutions:
//	  - name: Cardiff University
//	    base_domain: cardiff.ac.uk
//	    identity_provider: https://idp.cardiff.ac.uk/shibboleth
//	    needs_supervisor_approval: true
type PolicyFile struct {
	Institutions []Policy `yaml:"institutions"`
}

type Policy struct {
	Name                    string `yaml:"name"`
	BaseDomain              string `yaml:"base_domain"`
	IdentityProvider        string `yaml:"identity_provider"`
	NeedsUserApproval       bool   `yaml:"needs_user_approval"`
	NeedsSupervisorApproval bool   `yaml:"needs_supervisor_approval"`
	AllowsRSERequests       bool   `yaml:"allows_rse_requests"`
}

func (p Policy) Institution() Institution {
	return Institution{
		Name:                    p.Name,
		BaseDomain:              strings.ToLower(p.BaseDomain),
		IdentityProvider:        p.IdentityProvider,
		NeedsUserApproval:       p.NeedsUserApproval,
		NeedsSupervisorApproval: p.NeedsSupervisorApproval,
		AllowsRSERequests:       p.AllowsRSERequests,
	}
}

// ParsePolicies decodes and validates a policy document.
func ParsePolicies(r io.Reader) ([]Institution, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file PolicyFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parse institution policies: %w", err)
	}

	seen := make(map[string]bool)
	out := make([]Institution, 0, len(file.Institutions))
	for i, p := range file.Institutions {
		if p.Name == "" || p.BaseDomain == "" || p.IdentityProvider == "" {
			return nil, fmt.Errorf("institution %d: name, base_domain and identity_provider are required", i)
		}
		if seen[p.IdentityProvider] {
			return nil, fmt.Errorf("institution %q: duplicate identity_provider %s", p.Name, p.IdentityProvider)
		}
		seen[p.IdentityProvider] = true
		out = append(out, p.Institution())
	}
	return out, nil
}

func LoadPolicies(path string) ([]Institution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePolicies(f)
}
