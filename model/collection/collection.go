package collection

import (
	"fmt"

	"github.com/viant/procdef/model/item"
	"github.com/viant/procdef/model/property"
	"github.com/viant/procdef/model/types"
)

// Collection is a named, versioned, ordered list of members. Version nil
// denotes the current mutable collection.
//
// Member ids come from a high-water mark that is computed by scanning the
// members once, cached, then incremented. A Collection is not safe for
// concurrent mutation; callers serialise edits per collection.
type Collection struct {
	Name    string    `json:"name" yaml:"name"`
	Version *int      `json:"version,omitempty" yaml:"version,omitempty"`
	Members []*Member `json:"members,omitempty" yaml:"members,omitempty"`
	counter int
	counted bool
}

// VersionName returns the version as text, "last" for the mutable version
func (c *Collection) VersionName() string {
	return property.VersionName(c.Version)
}

// Size returns number of members
func (c *Collection) Size() int {
	return len(c.Members)
}

// HighWaterMark scans members and returns the highest id or -1. It caches nothing.
func (c *Collection) HighWaterMark() int {
	ret := -1
	for _, member := range c.Members {
		if member.ID > ret {
			ret = member.ID
		}
	}
	return ret
}

// EnsureCounter initialises the id counter from the members on first use; later
// calls return the cached counter unchanged.
func (c *Collection) EnsureCounter() int {
	if !c.counted {
		c.counter = c.HighWaterMark()
		c.counted = true
	}
	return c.counter
}

// NextMemberID reserves and returns the next member id
func (c *Collection) NextMemberID() int {
	c.EnsureCounter()
	c.counter++
	return c.counter
}

func (c *Collection) peekMemberID() int {
	if c.counted {
		return c.counter + 1
	}
	return c.HighWaterMark() + 1
}

func (c *Collection) commitMemberID(id int) {
	c.EnsureCounter()
	if id > c.counter {
		c.counter = id
	}
}

// Member returns the member with id
func (c *Collection) Member(id int) (*Member, error) {
	for _, member := range c.Members {
		if member.ID == id {
			return member, nil
		}
	}
	return nil, types.NewObjectNotFoundError("member %d in collection %s", id, c.Name)
}

// MembersByEntity returns members bound to entity
func (c *Collection) MembersByEntity(entity item.Identity) []*Member {
	var ret []*Member
	for _, member := range c.Members {
		if member.Entity == entity {
			ret = append(ret, member)
		}
	}
	return ret
}

// Contains returns true if any member is bound to entity
func (c *Collection) Contains(entity item.Identity) bool {
	return len(c.MembersByEntity(entity)) > 0
}

// ResolveMembers looks members up by slot id, by entity, or both. A negative
// slotID means lookup by entity alone.
func (c *Collection) ResolveMembers(slotID int, entity item.Identity) ([]*Member, error) {
	if slotID > -1 {
		member, err := c.Member(slotID)
		if err != nil {
			return nil, err
		}
		if !entity.IsEmpty() && member.Entity != entity {
			return nil, types.NewObjectNotFoundError("member %d of %s does not reference %s", slotID, c.Name, entity)
		}
		return []*Member{member}, nil
	}
	if entity.IsEmpty() {
		return nil, types.NewObjectNotFoundError("no member lookup key for collection %s", c.Name)
	}
	ret := c.MembersByEntity(entity)
	if len(ret) == 0 {
		return nil, types.NewObjectNotFoundError("%s is not a member of %s", entity, c.Name)
	}
	return ret, nil
}

// Entities returns bound entities in member order
func (c *Collection) Entities() []item.Identity {
	var ret []item.Identity
	for _, member := range c.Members {
		if !member.IsEmpty() {
			ret = append(ret, member.Entity)
		}
	}
	return ret
}

func (c *Collection) removeMember(id int) error {
	for i, member := range c.Members {
		if member.ID == id {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return nil
		}
	}
	return types.NewObjectNotFoundError("member %d in collection %s", id, c.Name)
}

func (c *Collection) clone() Collection {
	ret := Collection{Name: c.Name, counter: c.counter, counted: c.counted}
	if c.Version != nil {
		version := *c.Version
		ret.Version = &version
	}
	for _, member := range c.Members {
		ret.Members = append(ret.Members, member.Clone())
	}
	return ret
}

// String returns name:version
func (c *Collection) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.VersionName())
}
