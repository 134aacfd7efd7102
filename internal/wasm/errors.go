package wasm

import (
	"fmt"
	"slices"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// CompilationError occurs when Wasm module compilation fails
type CompilationError struct {
	ModuleName string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile Wasm module '%s': %v", e.ModuleName, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// InstantiationError occurs when module instantiation fails
type InstantiationError struct {
	ModuleName string
	InstanceID string
	Err        error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate module '%s' (instance: %s): %v",
		e.ModuleName, e.InstanceID, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// ModuleNotFoundError occurs when a module is not in cache
type ModuleNotFoundError struct {
	ModuleName string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module '%s' not found in cache", e.ModuleName)
}

// FunctionNotFoundError occurs when an exported function is missing
type FunctionNotFoundError struct {
	ModuleName   string
	FunctionName string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function '%s' not found in module '%s'",
		e.FunctionName, e.ModuleName)
}

// MemoryAccessError occurs when memory operations fail
type MemoryAccessError struct {
	Operation string
	Address   uint32
	Length    uint32
	Err       error
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access failed (op=%s, addr=%d, len=%d): %v",
		e.Operation, e.Address, e.Length, e.Err)
}

func (e *MemoryAccessError) Unwrap() error {
	return e.Err
}

// HostFunctionError occurs when host function execution fails
type HostFunctionError struct {
	FunctionName string
	Err          error
}

func (e *HostFunctionError) Error() string {
	return fmt.Sprintf("host function '%s' failed: %v", e.FunctionName, e.Err)
}

func (e *HostFunctionError) Unwrap() error {
	return e.Err
}

// CallError occurs when a call into an instance traps or fails
type CallError struct {
	InstanceID string
	Symbol     string
	Err        error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call to '%s' failed (instance: %s): %v", e.Symbol, e.InstanceID, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// InstanceLimitError occurs when the live instance limit is reached
type InstanceLimitError struct {
	Limit int
}

func (e *InstanceLimitError) Error() string {
	return fmt.Sprintf("instance limit of %d reached", e.Limit)
}

// RuntimeClosedError occurs when the runtime is used after Close
type RuntimeClosedError struct{}

func (e *RuntimeClosedError) Error() string {
	return "Wasm runtime is closed"
}

// ABIError lists the Diplomat exports a module lacks.
type ABIError struct {
	ModuleName string
	Missing    []string
}

func (e *ABIError) Error() string {
	return fmt.Sprintf("module '%s' is not a Diplomat library: missing exports %v", e.ModuleName, e.Missing)
}

// Unwrap reports each missing function as a FunctionNotFoundError.
func (e *ABIError) Unwrap() []error {
	var errs []error
	for _, name := range e.Missing {
		if slices.Contains(protocol.RuntimeExports, name) {
			errs = append(errs, &FunctionNotFoundError{ModuleName: e.ModuleName, FunctionName: name})
		}
	}
	return errs
}
