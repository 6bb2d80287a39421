package kicado

// Editor selects which KiCad editor the session drives. The two editors use
// different window titles, dialog wording, and binaries.
type Editor int

const (
	// PCBEditor is pcbnew, the board editor.
	PCBEditor Editor = iota
	// SchematicEditor is eeschema.
	SchematicEditor
)

func (e Editor) String() string {
	if e == PCBEditor {
		return "pcbnew"
	}
	return "eeschema"
}

// kind is the document noun used in dialog text ("PCB" / "Schematic").
func (e Editor) kind() string {
	if e == PCBEditor {
		return "PCB"
	}
	return "Schematic"
}

// program is the window-title program name used by the legacy convention.
func (e Editor) program() string {
	if e == PCBEditor {
		return "Pcbnew"
	}
	return "Eeschema"
}

// loadedSuffix is the new-style fully-loaded title suffix.
func (e Editor) loadedSuffix() string {
	return " — " + e.kind() + " Editor"
}

// legacyPrefix is the old-style title prefix ("Pcbnew —").
func (e Editor) legacyPrefix() string {
	return e.program() + " —"
}

// unsavedSuffix marks a transient legacy title emitted before the final
// load; titles carrying it must not count as loaded.
func (e Editor) unsavedSuffix() string {
	if e == PCBEditor {
		return "  [Unsaved]"
	}
	return " noname.sch"
}

// loadingTitle is the progress dialog shown while the document loads.
func (e Editor) loadingTitle() string {
	return "Loading " + e.kind()
}

// fatalCategory is the editor-specific category for corrupted input.
func (e Editor) fatalCategory() FailureCategory {
	if e == PCBEditor {
		return CategoryCorruptedPCB
	}
	return CategoryCorruptedSch
}
