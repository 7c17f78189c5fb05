package scene

import "testing"

func TestDefaultPipelineRules(t *testing.T) {
	tests := []struct {
		name    string
		build   func(s *Scene) (*Socket, *Socket)
		wantErr bool
	}{
		{
			name: "OutputToInput",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
				b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)
				return a.Output(0), b.Input(0)
			},
		},
		{
			name: "InputToOutput",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
				b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)
				return b.Input(0), a.Output(0)
			},
		},
		{
			name: "BothOutputs",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
				b := NewNode(s, "b", nil, [][]SocketType{{TypeInt}})
				return a.Output(0), b.Output(0)
			},
			wantErr: true,
		},
		{
			name: "BothInputs",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", [][]SocketType{{TypeInt}}, nil)
				b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)
				return a.Input(0), b.Input(0)
			},
			wantErr: true,
		},
		{
			name: "SelfLoop",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", [][]SocketType{{TypeInt}}, [][]SocketType{{TypeInt}})
				return a.Output(0), a.Input(0)
			},
			wantErr: true,
		},
		{
			name: "TypeMismatch",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
				b := NewNode(s, "b", [][]SocketType{{TypeStr}}, nil)
				return a.Output(0), b.Input(0)
			},
			wantErr: true,
		},
		{
			name: "UnionTypeAccepts",
			build: func(s *Scene) (*Socket, *Socket) {
				a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
				b := NewNode(s, "b", [][]SocketType{{TypeStr, TypeInt, TypeFloat}}, nil)
				return a.Output(0), b.Input(0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			start, end := tt.build(s)
			startLen, endLen := start.EdgeCount(), end.EdgeCount()

			e, err := NewEdge(s, start, end, EdgeTypeBezier)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewEdge: expected rejection, got edge %v", e)
				}
				if e != nil {
					t.Errorf("rejected construction returned edge %v", e)
				}
				// A rejected candidate must not be left partially attached.
				if start.EdgeCount() != startLen || end.EdgeCount() != endLen {
					t.Errorf("socket edge lists changed: start %d→%d, end %d→%d",
						startLen, start.EdgeCount(), endLen, end.EdgeCount())
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEdge: %v", err)
			}
			if !e.Connected() {
				t.Error("accepted edge is not connected")
			}
		})
	}
}

func TestPipelineOrderShortCircuits(t *testing.T) {
	var calls []string
	p := NewPipeline(
		func(e *Edge) bool { calls = append(calls, "first"); return false },
		func(e *Edge) bool { calls = append(calls, "second"); return true },
	)

	s := New()
	s.SetPipeline(p)
	a := NewNode(s, "a", nil, [][]SocketType{{TypeInt}})
	b := NewNode(s, "b", [][]SocketType{{TypeInt}}, nil)

	if _, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect); err == nil {
		t.Fatal("expected rejection")
	}
	if len(calls) != 1 || calls[0] != "first" {
		t.Errorf("calls = %v, want [first]", calls)
	}
}

func TestPipelineRegisterExtends(t *testing.T) {
	s := New()
	s.Pipeline().Register(func(e *Edge) bool {
		// Reject everything touching STR sockets.
		return e.Start().Type() != TypeStr && e.End().Type() != TypeStr
	})

	a := NewNode(s, "a", nil, [][]SocketType{{TypeStr}})
	b := NewNode(s, "b", [][]SocketType{{TypeStr}}, nil)
	if _, err := NewEdge(s, a.Output(0), b.Input(0), EdgeTypeDirect); err == nil {
		t.Fatal("custom rule did not reject")
	}

	c := NewNode(s, "c", nil, [][]SocketType{{TypeInt}})
	d := NewNode(s, "d", [][]SocketType{{TypeInt}}, nil)
	if _, err := NewEdge(s, c.Output(0), d.Input(0), EdgeTypeDirect); err != nil {
		t.Fatalf("custom rule rejected unrelated edge: %v", err)
	}
}
