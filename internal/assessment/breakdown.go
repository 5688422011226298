package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SkillBreakdown is an ordered skill -> percentage mapping. Plain Go maps
// randomize iteration and sort keys when marshaled; result rows and API
// responses need the skills in first-occurrence order, so ordering is kept
// explicitly.
type SkillBreakdown struct {
	order []Skill
	pct   map[Skill]int
}

func (b *SkillBreakdown) Set(s Skill, percent int) {
	if b.pct == nil {
		b.pct = map[Skill]int{}
	}
	if _, ok := b.pct[s]; !ok {
		b.order = append(b.order, s)
	}
	b.pct[s] = percent
}

func (b SkillBreakdown) Get(s Skill) (int, bool) {
	v, ok := b.pct[s]
	return v, ok
}

func (b SkillBreakdown) Skills() []Skill { return b.order }

func (b SkillBreakdown) Len() int { return len(b.order) }

// MarshalJSON emits a JSON object with keys in insertion order.
func (b SkillBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range b.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(s))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", b.pct[s])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token-by-token so stored key order survives a
// round trip.
func (b *SkillBreakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skill breakdown: expected object, got %v", tok)
	}
	b.order = nil
	b.pct = map[Skill]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var v int
		if err := dec.Decode(&v); err != nil {
			return err
		}
		b.Set(Skill(key), v)
	}
	_, err = dec.Token() // closing brace
	return err
}
