// Package definition provides YAML form definitions, their structural
// validation and the conversion into form mappings.
//
// A definition file pins the fields of each form explicitly instead of
// deriving them from the struct, so the rendered order, input types and
// patterns stay stable when the data types change.
//
// # Schema Overview
//
//	version: "1"
//	config:
//	  trim_input: true
//	  max_list_index: 200
//	  locale: de
//	forms:
//	  - path: person
//	    type: Person          # name registered with Registry.AddType
//	    secured: true
//	    fields:
//	      - fullName          # shorthand for {name: fullName}
//	      - name: born
//	        type: date
//	        pattern: "2006-01-02"
//	        order: 1
//	      - name: password
//	        type: password
//	        required: true
//	    nested:
//	      - path: address
//	        auto: true
//	    lists:
//	      - path: phones
//	        fields: [number, kind]
//
// # Types
//
// Root forms name their Go type; nested and list forms take the type of
// the parent property unless they name a compatible one. Formatters and
// instantiators are referenced by name as well. Validate works without a
// Registry too, checking only what the file itself says.
package definition
