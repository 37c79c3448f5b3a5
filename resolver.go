package tagcatalog

import (
	"strconv"
	"strings"
)

// ParseRequirements parses query text and binds it against the catalog's tags.
func ParseRequirements(text string, tags map[TagID]*Tag) (Requirements, error) {
	exprs, err := ParseQuery(text)
	if err != nil {
		return nil, err
	}
	return ResolveRequirements(exprs, tags)
}

// ResolveRequirements turns parsed expressions into requirements bound to
// concrete tag ids. It never modifies tags.
func ResolveRequirements(exprs []Expr, tags map[TagID]*Tag) (Requirements, error) {
	reqs, err := resolveList(exprs, tags)
	if err != nil {
		return nil, err
	}
	return Requirements(reqs), nil
}

func resolveList(exprs []Expr, tags map[TagID]*Tag) ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(exprs))
	for _, e := range exprs {
		req, err := resolve(e, tags)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func resolve(e Expr, tags map[TagID]*Tag) (Requirement, error) {
	switch e := e.(type) {
	case Word:
		id, err := lookupTag(e.Text, tags)
		if err != nil {
			return nil, err
		}
		return HasTag{ID: id}, nil
	case ExactWord:
		id, err := lookupTag(e.Text, tags)
		if err != nil {
			return nil, err
		}
		return HasTagExact{ID: id}, nil
	case Negation:
		inner, err := resolve(e.Inner, tags)
		if err != nil {
			return nil, err
		}
		return Not{Req: inner}, nil
	case Call:
		return resolveCall(e, tags)
	}
	return nil, &ParseError{Msg: "unsupported expression"}
}

func resolveCall(call Call, tags map[TagID]*Tag) (Requirement, error) {
	switch call.Name {
	case "any":
		reqs, err := resolveList(call.Params, tags)
		if err != nil {
			return nil, err
		}
		return Any{Reqs: reqs}, nil
	case "all":
		reqs, err := resolveList(call.Params, tags)
		if err != nil {
			return nil, err
		}
		return All{Reqs: reqs}, nil
	case "none":
		reqs, err := resolveList(call.Params, tags)
		if err != nil {
			return nil, err
		}
		return None{Reqs: reqs}, nil
	case "filename", "file", "fname", "f":
		text, err := stringParam(call)
		if err != nil {
			return nil, err
		}
		return FilenameSub{Sub: strings.ToLower(text)}, nil
	case "seq", "sequence":
		return PartOfSeq{}, nil
	case "notag", "no-tag", "untagged":
		return NTags{N: 0}, nil
	case "ntags":
		text, err := stringParam(call)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 31)
		if err != nil {
			return nil, &InvalidParameterError{Fn: call.Name, Reason: "expected a tag count, got " + strconv.Quote(text)}
		}
		return NTags{N: int(n)}, nil
	}
	return nil, &UnknownFnError{Name: call.Name}
}

// stringParam returns the single plain-word parameter of call.
func stringParam(call Call) (string, error) {
	if len(call.Params) == 0 {
		return "", &MissingParameterError{Fn: call.Name}
	}
	if len(call.Params) > 1 {
		return "", &InvalidParameterError{Fn: call.Name, Reason: "expected exactly one parameter"}
	}
	w, ok := call.Params[0].(Word)
	if !ok {
		return "", &InvalidParameterError{Fn: call.Name, Reason: "expected a plain string"}
	}
	return w.Text, nil
}

func lookupTag(name string, tags map[TagID]*Tag) (TagID, error) {
	for id, tag := range tags {
		for _, n := range tag.Names {
			if n == name {
				return id, nil
			}
		}
	}
	return 0, &NoSuchTagError{Name: name}
}
