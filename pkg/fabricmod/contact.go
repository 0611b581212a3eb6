// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"maps"
	"slices"
)

var contactKeys = []string{"email", "irc", "homepage", "issues", "sources"}

type (
	// ContactInfo lists the ways to reach a mod or a person. Empty fields are
	// absent. Additional holds further channels such as "discord".
	ContactInfo struct {
		Email      string
		IRC        string
		Homepage   string
		Issues     string
		Sources    string
		Additional map[string]string
	}

	// Person is an author or contributor.
	Person struct {
		Name    string
		Contact *ContactInfo
	}
)

func (c ContactInfo) validate(owner string) []error {
	return checkExtensionKeys(owner, c.Additional, contactKeys)
}

func (c ContactInfo) clone() ContactInfo {
	out := c
	out.Additional = nil
	if len(c.Additional) > 0 {
		out.Additional = maps.Clone(c.Additional)
	}
	return out
}

func (c ContactInfo) equal(other ContactInfo) bool {
	return c.Email == other.Email &&
		c.IRC == other.IRC &&
		c.Homepage == other.Homepage &&
		c.Issues == other.Issues &&
		c.Sources == other.Sources &&
		maps.Equal(c.Additional, other.Additional)
}

func (p Person) clone() Person {
	out := Person{Name: p.Name}
	if p.Contact != nil {
		c := p.Contact.clone()
		out.Contact = &c
	}
	return out
}

func (p Person) equal(other Person) bool {
	if p.Name != other.Name || (p.Contact == nil) != (other.Contact == nil) {
		return false
	}
	return p.Contact == nil || p.Contact.equal(*other.Contact)
}

func clonePeople(people []Person) []Person {
	if people == nil {
		return nil
	}
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = p.clone()
	}
	return out
}

func peopleEqual(a, b []Person) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.EqualFunc(a, b, Person.equal)
}
