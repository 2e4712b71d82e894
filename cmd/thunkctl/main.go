// Command thunkctl checks dispatch stack settings files.
//
//	thunkctl validate stack.yaml
//	thunkctl validate --ping stack.yaml
package main

func main() {
	Execute()
}
